package adafruitio

import (
	"fmt"
	"net/http"
	"net/url"

	json "github.com/goccy/go-json"
)

// Groups retrieves all of the account's groups.
func (c *Client) Groups() ([]Group, error) {
	list, err := c.getList("groups", url.Values{})
	if err != nil {
		return nil, err
	}
	groups := make([]Group, 0, len(list))
	for _, m := range list {
		groups = append(groups, GroupFromMap(m))
	}
	return groups, nil
}

// Group retrieves a single group by name, key, or ID.
func (c *Client) Group(group string) (Group, error) {
	m, err := c.get(fmt.Sprintf("groups/%s", group))
	if err != nil {
		return Group{}, err
	}
	return GroupFromMap(m), nil
}

// CreateGroup creates the given group.
func (c *Client) CreateGroup(group Group) (Group, error) {
	m, err := c.post("groups", group)
	if err != nil {
		return Group{}, err
	}
	return GroupFromMap(m), nil
}

// DeleteGroup deletes a group.
func (c *Client) DeleteGroup(group string) error {
	return c.delete(fmt.Sprintf("groups/%s", group))
}

// CreateGroupData appends one value to each addressed feed of a group with a
// single request. Each row names its target feed by key; the created rows are
// returned with the fields the service filled in.
func (c *Client) CreateGroupData(group string, rows []GroupFeedData) ([]GroupFeedData, error) {
	path := fmt.Sprintf("groups/%s/data", group)
	body, err := c.do(http.MethodPost, c.composeURL(path), map[string]interface{}{"feeds": rows})
	if err != nil {
		return nil, err
	}
	var list []map[string]interface{}
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}
	created := make([]GroupFeedData, 0, len(list))
	for _, m := range list {
		created = append(created, GroupFeedDataFromMap(m))
	}
	return created, nil
}
