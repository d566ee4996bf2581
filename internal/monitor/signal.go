package monitor

import (
	"net/url"
	"strings"

	"github.com/genricoloni/marqueed/internal/domain"
	"github.com/sonh/qs"
	"go.uber.org/multierr"
)

// Query keys used in signal-file records
const (
	eventKey  = "event"
	param1Key = "param1"
	param2Key = "param2"
)

// DecodeSignal parses a signal-file record such as
// "event=game-selected&param1=snes&param2=mario". Unknown keys are ignored.
// Pairs are split on '&' only, so a raw ';' stays part of the value.
// On a malformed record the pairs that could be decoded are still returned
// together with the error.
func DecodeSignal(content string) (domain.SelectionEvent, error) {
	values, err := parsePairs(strings.TrimSpace(content))
	return domain.SelectionEvent{
		Name:   values.Get(eventKey),
		Param1: values.Get(param1Key),
		Param2: values.Get(param2Key),
	}, err
}

func parsePairs(query string) (url.Values, error) {
	values := url.Values{}
	var err error

	for _, pair := range strings.Split(query, "&") {
		if pair == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(pair, "=")

		key, keyErr := url.QueryUnescape(rawKey)
		if keyErr != nil {
			err = multierr.Append(err, keyErr)
			continue
		}
		value, valueErr := url.QueryUnescape(rawValue)
		if valueErr != nil {
			err = multierr.Append(err, valueErr)
			continue
		}
		values.Add(key, value)
	}
	return values, err
}

// EncodeSignal renders ev as a signal-file record
func EncodeSignal(ev domain.SelectionEvent) (string, error) {
	values, err := qs.NewEncoder().Values(ev)
	if err != nil {
		return "", err
	}
	return values.Encode(), nil
}
