package adafruitio

import (
	"fmt"
	"net/url"
)

// Feeds retrieves all of the account's feeds.
func (c *Client) Feeds() ([]Feed, error) {
	list, err := c.getList("feeds", url.Values{})
	if err != nil {
		return nil, err
	}
	feeds := make([]Feed, 0, len(list))
	for _, m := range list {
		feeds = append(feeds, FeedFromMap(m))
	}
	return feeds, nil
}

// Feed retrieves a single feed by name, key, or ID.
func (c *Client) Feed(feed string) (Feed, error) {
	m, err := c.get(fmt.Sprintf("feeds/%s", feed))
	if err != nil {
		return Feed{}, err
	}
	return FeedFromMap(m), nil
}

// CreateFeed creates the given feed.
func (c *Client) CreateFeed(feed Feed) (Feed, error) {
	m, err := c.post("feeds", map[string]interface{}{"feed": feed})
	if err != nil {
		return Feed{}, err
	}
	return FeedFromMap(m), nil
}

// CreateFeedInGroup creates the given feed inside an existing group, by
// posting to the group's feed sub-resource.
func (c *Client) CreateFeedInGroup(feed Feed, groupKey string) (Feed, error) {
	path := fmt.Sprintf("groups/%s/feeds", groupKey)
	m, err := c.post(path, map[string]interface{}{"feed": feed})
	if err != nil {
		return Feed{}, err
	}
	return FeedFromMap(m), nil
}

// DeleteFeed deletes a feed and all of its data.
func (c *Client) DeleteFeed(feed string) error {
	return c.delete(fmt.Sprintf("feeds/%s", feed))
}
