package nats

import (
	"os"

	"github.com/nats-io/nats.go"
)

type Nats struct {
	Url   string
	Token string
	Conn  *nats.Conn
}

// Connect dials the NATS server at url. The optional NATS_TOKEN env
// var is applied when present.
func Connect(url string) (*Nats, error) {
	n := &Nats{
		Url:   url,
		Token: os.Getenv("NATS_TOKEN"),
	}

	opts := []nats.Option{
		nats.Name("card-services"),
	}

	// if token provided
	if n.Token != "" {
		opts = append(opts, nats.Token(n.Token))
	}

	conn, err := nats.Connect(n.Url, opts...)
	if err != nil {
		return nil, err
	}

	n.Conn = conn

	return n, nil
}
