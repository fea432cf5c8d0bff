package source

import (
	"context"
	"io/ioutil"
	"net/http"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"rangequery/cycle"
)

var log = logging.MustGetLogger("source")

// HTTPSource reads the sequence, queries and token from the input API.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{URL: url, Client: client}
}

func (s *HTTPSource) Fetch(ctx context.Context) (*cycle.Input, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "new request %s", s.URL)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", s.URL)
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", s.URL)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("get %s: %s", s.URL, resp.Status)
	}

	payload, err := Decode(body)
	if err != nil {
		return nil, err
	}
	log.Debugf("fetched %s from %s", payload, s.URL)
	return payload.Input()
}
