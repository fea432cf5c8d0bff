package sink

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("sink")

type resultBody struct {
	Results []float64 `json:"results"`
}

// HTTPSink posts answers to the output API with the cycle's bearer token.
// Failed posts are reported, not retried.
type HTTPSink struct {
	URL    string
	Client *http.Client
}

func NewHTTPSink(url string, client *http.Client) *HTTPSink {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSink{URL: url, Client: client}
}

func (s *HTTPSink) Deliver(ctx context.Context, token string, answers []float64) error {
	if answers == nil {
		answers = []float64{}
	}
	body, err := json.Marshal(resultBody{Results: answers})
	if err != nil {
		return errors.Wrap(err, "encode results")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "new request %s", s.URL)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "post %s", s.URL)
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("failed to post results: %s", resp.Status)
	}
	log.Debugf("posted %d results to %s", len(answers), s.URL)
	return nil
}
