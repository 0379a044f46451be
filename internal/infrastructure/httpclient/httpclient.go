package httpclient

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultTimeout = 15 * time.Second

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewBearerClient returns a client that sends token as a bearer credential.
func NewBearerClient(token string) *http.Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(context.Background(), ts)
	client.Timeout = defaultTimeout
	return client
}
