package mongo

import (
	"context"
	"time"

	gomongo "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type Client struct {
	*gomongo.Client
	database string
}

func New(uri, database string) (*Client, error) {

	client, err := gomongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = client.Ping(ctx, readpref.Primary())

	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return &Client{Client: client, database: database}, nil

}

// Database returns the application database.
func (c *Client) Database() *gomongo.Database {
	return c.Client.Database(c.database)
}

func (c *Client) Close(ctx context.Context) error {
	return c.Client.Disconnect(ctx)
}
