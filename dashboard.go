package adafruitio

import (
	"fmt"
	"net/url"
)

// Dashboards retrieves all of the account's dashboards.
func (c *Client) Dashboards() ([]Dashboard, error) {
	list, err := c.getList("dashboards", url.Values{})
	if err != nil {
		return nil, err
	}
	dashboards := make([]Dashboard, 0, len(list))
	for _, m := range list {
		dashboards = append(dashboards, DashboardFromMap(m))
	}
	return dashboards, nil
}

// Dashboard retrieves a single dashboard by key.
func (c *Client) Dashboard(dashboard string) (Dashboard, error) {
	m, err := c.get(fmt.Sprintf("dashboards/%s", dashboard))
	if err != nil {
		return Dashboard{}, err
	}
	return DashboardFromMap(m), nil
}

// CreateDashboard creates the given dashboard.
func (c *Client) CreateDashboard(dashboard Dashboard) (Dashboard, error) {
	m, err := c.post("dashboards", dashboard)
	if err != nil {
		return Dashboard{}, err
	}
	return DashboardFromMap(m), nil
}

// DeleteDashboard deletes a dashboard.
func (c *Client) DeleteDashboard(dashboard string) error {
	return c.delete(fmt.Sprintf("dashboards/%s", dashboard))
}

// Blocks retrieves all blocks of a dashboard.
func (c *Client) Blocks(dashboard string) ([]Block, error) {
	path := fmt.Sprintf("dashboards/%s/blocks", dashboard)
	list, err := c.getList(path, url.Values{})
	if err != nil {
		return nil, err
	}
	blocks := make([]Block, 0, len(list))
	for _, m := range list {
		blocks = append(blocks, BlockFromMap(m))
	}
	return blocks, nil
}

// Block retrieves a single block of a dashboard by ID.
func (c *Client) Block(dashboard, blockID string) (Block, error) {
	m, err := c.get(fmt.Sprintf("dashboards/%s/blocks/%s", dashboard, blockID))
	if err != nil {
		return Block{}, err
	}
	return BlockFromMap(m), nil
}

// CreateBlock creates the given block on a dashboard.
func (c *Client) CreateBlock(dashboard string, block Block) (Block, error) {
	path := fmt.Sprintf("dashboards/%s/blocks", dashboard)
	m, err := c.post(path, map[string]interface{}{"block": block})
	if err != nil {
		return Block{}, err
	}
	return BlockFromMap(m), nil
}

// DeleteBlock deletes a block from a dashboard.
func (c *Client) DeleteBlock(dashboard, blockID string) error {
	return c.delete(fmt.Sprintf("dashboards/%s/blocks/%s", dashboard, blockID))
}

// Layouts retrieves a dashboard's per-breakpoint block layout.
func (c *Client) Layouts(dashboard string) (Layout, error) {
	m, err := c.get(fmt.Sprintf("dashboards/%s", dashboard))
	if err != nil {
		return Layout{}, err
	}
	return LayoutFromMap(mapObject(m, "layouts")), nil
}

// UpdateLayout replaces a dashboard's block layout.
func (c *Client) UpdateLayout(dashboard string, layout Layout) (Layout, error) {
	path := fmt.Sprintf("dashboards/%s/update_layouts", dashboard)
	m, err := c.post(path, map[string]interface{}{"layouts": layout})
	if err != nil {
		return Layout{}, err
	}
	return LayoutFromMap(m), nil
}
