package adafruitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDataFromMap(t *testing.T) {
	d := DataFromMap(map[string]interface{}{
		"id":            "0E8PGTD6KDJ5CAG09VRY6MS6BK",
		"value":         "72.5",
		"feed_id":       float64(1234),
		"created_epoch": float64(1550326122),
		"created_at":    "2019-02-16T13:28:42Z",
		"lat":           37.8,
		"lon":           -122.3,
		"ele":           12.0,
	})
	assert.Equal(t, "0E8PGTD6KDJ5CAG09VRY6MS6BK", d.ID)
	assert.Equal(t, "72.5", d.Value)
	assert.Equal(t, int64(1234), d.FeedID)
	assert.Equal(t, float64(1550326122), d.CreatedEpoch)
	assert.Equal(t, "2019-02-16T13:28:42Z", d.CreatedAt)
	assert.Equal(t, 37.8, d.Lat)
	assert.Equal(t, -122.3, d.Lon)
	assert.Equal(t, 12.0, d.Ele)
}

func TestDataFromMapIgnoresUnknownKeys(t *testing.T) {
	d := DataFromMap(map[string]interface{}{
		"value":               "1",
		"some_future_field":   "whatever",
		"another_new_field":   float64(99),
		"nested_future_field": map[string]interface{}{"x": 1},
	})
	assert.Equal(t, Data{Value: "1"}, d)
}

func TestDataFromMapMissingKeysDefault(t *testing.T) {
	d := DataFromMap(map[string]interface{}{})
	assert.Equal(t, Data{}, d)
}

func TestDataFromMapCoercesNumericValue(t *testing.T) {
	// The service always stores values as text, but a decoded payload may
	// still carry a JSON number.
	d := DataFromMap(map[string]interface{}{"value": float64(42)})
	assert.Equal(t, "42", d.Value)
}

func TestFeedFromMap(t *testing.T) {
	f := FeedFromMap(map[string]interface{}{
		"name":        "Temperature",
		"key":         "temperature",
		"id":          float64(1234),
		"description": "outside",
		"history":     "ON",
		"visibility":  "Private",
		"unknown":     "dropped",
	})
	assert.Equal(t, "Temperature", f.Name)
	assert.Equal(t, "temperature", f.Key)
	assert.Equal(t, int64(1234), f.ID)
	assert.Equal(t, "outside", f.Description)
	assert.Equal(t, "ON", f.History)
	assert.Equal(t, "Private", f.Visibility)
}

func TestNewFeedDefaults(t *testing.T) {
	f := NewFeed("Temperature")
	assert.Equal(t, "Temperature", f.Name)
	assert.Equal(t, "ON", f.History)
	assert.Equal(t, "Private", f.Visibility)
}

func TestGroupFromMapNestedFeeds(t *testing.T) {
	g := GroupFromMap(map[string]interface{}{
		"name": "weather station",
		"key":  "weather-station",
		"id":   float64(7),
		"source_keys": []interface{}{"temperature", "humidity"},
		"feeds": []interface{}{
			map[string]interface{}{"name": "Temperature", "key": "temperature"},
			map[string]interface{}{"name": "Humidity", "key": "humidity", "brand_new": true},
		},
	})
	assert.Equal(t, "weather station", g.Name)
	assert.Equal(t, []string{"temperature", "humidity"}, g.SourceKeys)
	assert.Len(t, g.Feeds, 2)
	assert.Equal(t, "temperature", g.Feeds[0].Key)
	assert.Equal(t, "Humidity", g.Feeds[1].Name)
}

func TestGroupFeedDataFromMap(t *testing.T) {
	g := GroupFeedDataFromMap(map[string]interface{}{
		"feed_key":          "temperature",
		"id":                "1",
		"value":             "21.5",
		"feed_id":           float64(1234),
		"created_at":        "2019-02-16T13:28:42Z",
		"some_future_field": "whatever",
	})
	assert.Equal(t, "temperature", g.FeedKey)
	assert.Equal(t, "1", g.ID)
	assert.Equal(t, "21.5", g.Value)
	assert.Equal(t, int64(1234), g.FeedID)
	assert.Equal(t, "2019-02-16T13:28:42Z", g.CreatedAt)
}

func TestGroupFeedDataFromMapAcceptsRequestSpelling(t *testing.T) {
	// Outbound rows name the feed under "key"; decoding one back should
	// still find it.
	g := GroupFeedDataFromMap(map[string]interface{}{"key": "humidity", "value": "64"})
	assert.Equal(t, "humidity", g.FeedKey)
}

func TestNewDashboardDefaults(t *testing.T) {
	d := NewDashboard("home")
	assert.Equal(t, "home", d.Name)
	assert.False(t, d.ShowHeader)
	assert.Equal(t, "dark", d.ColorMode)
	assert.True(t, d.BlockBorders)
}

func TestDashboardFromMapNestedBlocks(t *testing.T) {
	d := DashboardFromMap(map[string]interface{}{
		"name":          "home",
		"key":           "home",
		"show_header":   true,
		"color_mode":    "light",
		"block_borders": false,
		"blocks": []interface{}{
			map[string]interface{}{"name": "gauge", "id": float64(1), "visual_type": "gauge"},
		},
	})
	assert.True(t, d.ShowHeader)
	assert.Equal(t, "light", d.ColorMode)
	assert.False(t, d.BlockBorders)
	assert.Len(t, d.Blocks, 1)
	assert.Equal(t, "gauge", d.Blocks[0].VisualType)
}

func TestBlockFromMapDefaultsProperties(t *testing.T) {
	b := BlockFromMap(map[string]interface{}{"name": "chart"})
	assert.NotNil(t, b.Properties)
	assert.Empty(t, b.Properties)

	b = BlockFromMap(map[string]interface{}{
		"name":       "chart",
		"properties": map[string]interface{}{"xAxisMin": float64(0)},
	})
	assert.Equal(t, float64(0), b.Properties["xAxisMin"])
}

func TestLayoutFromMap(t *testing.T) {
	l := LayoutFromMap(map[string]interface{}{
		"lg": []interface{}{
			map[string]interface{}{"x": float64(0), "y": float64(2), "w": float64(4), "h": float64(4), "i": "12345"},
		},
		"xs": []interface{}{
			map[string]interface{}{"x": float64(1), "y": float64(0), "w": float64(2), "h": float64(2), "i": "12346"},
		},
	})
	assert.Equal(t, []LayoutPosition{{X: 0, Y: 2, W: 4, H: 4, I: "12345"}}, l.LG)
	assert.Equal(t, []LayoutPosition{{X: 1, Y: 0, W: 2, H: 2, I: "12346"}}, l.XS)
	assert.Nil(t, l.XL)
	assert.Nil(t, l.MD)
	assert.Nil(t, l.SM)
}
