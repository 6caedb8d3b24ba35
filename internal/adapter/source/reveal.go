package source

import (
	"net/url"
	"strconv"

	"github.com/PuerkitoBio/goquery"
)

// A revealer yields the URL that shows the next portion of a listing.
type revealer interface {
	next(listing *url.URL, doc *goquery.Document, cycle int) (string, bool)
}

// scrollReveal follows an infinite scroll listing backed by a page
// query parameter.
type scrollReveal struct {
	param string
}

func (r scrollReveal) next(
	listing *url.URL, _ *goquery.Document, cycle int,
) (string, bool) {
	u := *listing
	q := u.Query()
	q.Set(r.param, strconv.Itoa(cycle+1))
	u.RawQuery = q.Encode()
	return u.String(), true
}

// loadMoreReveal follows the "load more" control until it disappears.
type loadMoreReveal struct {
	control string
}

func (r loadMoreReveal) next(
	_ *url.URL, doc *goquery.Document, _ int,
) (string, bool) {
	next := resolve(doc.Url, attr(doc.Find(r.control), "href"))
	return next, next != ""
}

type noReveal struct{}

func (noReveal) next(*url.URL, *goquery.Document, int) (string, bool) {
	return "", false
}
