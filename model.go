package adafruitio

import (
	"strconv"
)

// The record types below are plain immutable values: the client constructs a
// fresh record for every response and never mutates one after handing it to
// the caller. Each type has a FromMap conversion that copies only the fields
// the client knows about and silently drops everything else, so that new
// server-side fields never break a deployed client. The recognized field sets
// are enumerated explicitly; there is no reflection.

// Data is one row of a feed: a value plus its timestamps and optional
// location metadata. Value is always transmitted and received as text;
// coercing it to a number or boolean is the caller's responsibility.
type Data struct {
	ID           string  `json:"id,omitempty"`
	Value        string  `json:"value,omitempty"`
	FeedID       int64   `json:"feed_id,omitempty"`
	CreatedEpoch float64 `json:"created_epoch,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
	CompletedAt  string  `json:"completed_at,omitempty"`
	Expiration   string  `json:"expiration,omitempty"`
	Position     string  `json:"position,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lon          float64 `json:"lon,omitempty"`
	Ele          float64 `json:"ele,omitempty"`
}

// Feed is a named, server-hosted stream of Data rows, identified by name, key,
// or numeric ID.
type Feed struct {
	Name          string `json:"name,omitempty"`
	Key           string `json:"key,omitempty"`
	ID            int64  `json:"id,omitempty"`
	Description   string `json:"description,omitempty"`
	UnitType      string `json:"unit_type,omitempty"`
	UnitSymbol    string `json:"unit_symbol,omitempty"`
	History       string `json:"history,omitempty"`
	Visibility    string `json:"visibility,omitempty"`
	License       string `json:"license,omitempty"`
	StatusNotify  bool   `json:"status_notify,omitempty"`
	StatusTimeout int    `json:"status_timeout,omitempty"`
}

// NewFeed returns a Feed with the given name and the service defaults of
// history "ON" and visibility "Private".
func NewFeed(name string) Feed {
	return Feed{
		Name:       name,
		History:    "ON",
		Visibility: "Private",
	}
}

// Group is a named collection of feeds enabling batch reads and writes across
// all of them at once.
type Group struct {
	Name        string                 `json:"name,omitempty"`
	Key         string                 `json:"key,omitempty"`
	ID          int64                  `json:"id,omitempty"`
	Description string                 `json:"description,omitempty"`
	Source      string                 `json:"source,omitempty"`
	SourceKeys  []string               `json:"source_keys,omitempty"`
	Feeds       []Feed                 `json:"feeds,omitempty"`
	Properties  map[string]interface{} `json:"properties,omitempty"`
}

// GroupFeedData is one data row addressed to a feed inside a group. It
// carries the feed's key alongside the usual row fields so a single group
// request can fan values out to several feeds at once.
type GroupFeedData struct {
	FeedKey      string  `json:"key,omitempty"`
	ID           string  `json:"id,omitempty"`
	Value        string  `json:"value,omitempty"`
	FeedID       int64   `json:"feed_id,omitempty"`
	CreatedEpoch float64 `json:"created_epoch,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
	Lat          float64 `json:"lat,omitempty"`
	Lon          float64 `json:"lon,omitempty"`
	Ele          float64 `json:"ele,omitempty"`
}

// Dashboard is a visualization page holding a set of blocks.
type Dashboard struct {
	Name           string  `json:"name,omitempty"`
	Key            string  `json:"key,omitempty"`
	Description    string  `json:"description,omitempty"`
	ShowHeader     bool    `json:"show_header"`
	ColorMode      string  `json:"color_mode,omitempty"`
	BlockBorders   bool    `json:"block_borders"`
	HeaderImageURL string  `json:"header_image_url,omitempty"`
	Blocks         []Block `json:"blocks,omitempty"`
}

// NewDashboard returns a Dashboard with the given name and the service
// defaults: header hidden, dark color mode, block borders shown.
func NewDashboard(name string) Dashboard {
	return Dashboard{
		Name:         name,
		ShowHeader:   false,
		ColorMode:    "dark",
		BlockBorders: true,
	}
}

// Block is one widget on a dashboard (chart, gauge, stream, ...).
type Block struct {
	Name       string                   `json:"name,omitempty"`
	ID         int64                    `json:"id,omitempty"`
	VisualType string                   `json:"visual_type,omitempty"`
	Properties map[string]interface{}   `json:"properties"`
	BlockFeeds []map[string]interface{} `json:"block_feeds,omitempty"`
}

// NewBlock returns a Block with the given name and visual type and an empty
// properties map.
func NewBlock(name, visualType string) Block {
	return Block{
		Name:       name,
		VisualType: visualType,
		Properties: map[string]interface{}{},
	}
}

// LayoutPosition places one block within a dashboard layout at a given
// breakpoint.
type LayoutPosition struct {
	X int    `json:"x"`
	Y int    `json:"y"`
	W int    `json:"w"`
	H int    `json:"h"`
	I string `json:"i"`
}

// Layout holds the per-breakpoint block positions of a dashboard, from
// extra-large screens down to extra-small ones.
type Layout struct {
	XL []LayoutPosition `json:"xl,omitempty"`
	LG []LayoutPosition `json:"lg,omitempty"`
	MD []LayoutPosition `json:"md,omitempty"`
	SM []LayoutPosition `json:"sm,omitempty"`
	XS []LayoutPosition `json:"xs,omitempty"`
}

// DataFromMap builds a Data record from a decoded JSON object, ignoring
// unrecognized keys.
func DataFromMap(m map[string]interface{}) Data {
	return Data{
		ID:           mapString(m, "id"),
		Value:        mapString(m, "value"),
		FeedID:       mapInt(m, "feed_id"),
		CreatedEpoch: mapFloat(m, "created_epoch"),
		CreatedAt:    mapString(m, "created_at"),
		UpdatedAt:    mapString(m, "updated_at"),
		CompletedAt:  mapString(m, "completed_at"),
		Expiration:   mapString(m, "expiration"),
		Position:     mapString(m, "position"),
		Lat:          mapFloat(m, "lat"),
		Lon:          mapFloat(m, "lon"),
		Ele:          mapFloat(m, "ele"),
	}
}

// FeedFromMap builds a Feed record from a decoded JSON object, ignoring
// unrecognized keys.
func FeedFromMap(m map[string]interface{}) Feed {
	return Feed{
		Name:          mapString(m, "name"),
		Key:           mapString(m, "key"),
		ID:            mapInt(m, "id"),
		Description:   mapString(m, "description"),
		UnitType:      mapString(m, "unit_type"),
		UnitSymbol:    mapString(m, "unit_symbol"),
		History:       mapString(m, "history"),
		Visibility:    mapString(m, "visibility"),
		License:       mapString(m, "license"),
		StatusNotify:  mapBool(m, "status_notify"),
		StatusTimeout: int(mapInt(m, "status_timeout")),
	}
}

// GroupFromMap builds a Group record from a decoded JSON object, ignoring
// unrecognized keys. Nested feed objects become Feed records.
func GroupFromMap(m map[string]interface{}) Group {
	g := Group{
		Name:        mapString(m, "name"),
		Key:         mapString(m, "key"),
		ID:          mapInt(m, "id"),
		Description: mapString(m, "description"),
		Source:      mapString(m, "source"),
		SourceKeys:  mapStrings(m, "source_keys"),
		Properties:  mapObject(m, "properties"),
	}
	for _, f := range mapObjects(m, "feeds") {
		g.Feeds = append(g.Feeds, FeedFromMap(f))
	}
	return g
}

// GroupFeedDataFromMap builds a GroupFeedData record from a decoded JSON
// object, ignoring unrecognized keys. The service names the feed key "key" on
// requests but "feed_key" on the rows it echoes back; both spellings are
// recognized.
func GroupFeedDataFromMap(m map[string]interface{}) GroupFeedData {
	key := mapString(m, "feed_key")
	if key == "" {
		key = mapString(m, "key")
	}
	return GroupFeedData{
		FeedKey:      key,
		ID:           mapString(m, "id"),
		Value:        mapString(m, "value"),
		FeedID:       mapInt(m, "feed_id"),
		CreatedEpoch: mapFloat(m, "created_epoch"),
		CreatedAt:    mapString(m, "created_at"),
		UpdatedAt:    mapString(m, "updated_at"),
		Lat:          mapFloat(m, "lat"),
		Lon:          mapFloat(m, "lon"),
		Ele:          mapFloat(m, "ele"),
	}
}

// DashboardFromMap builds a Dashboard record from a decoded JSON object,
// ignoring unrecognized keys. Nested block objects become Block records.
func DashboardFromMap(m map[string]interface{}) Dashboard {
	d := Dashboard{
		Name:           mapString(m, "name"),
		Key:            mapString(m, "key"),
		Description:    mapString(m, "description"),
		ShowHeader:     mapBool(m, "show_header"),
		ColorMode:      mapString(m, "color_mode"),
		BlockBorders:   mapBool(m, "block_borders"),
		HeaderImageURL: mapString(m, "header_image_url"),
	}
	for _, b := range mapObjects(m, "blocks") {
		d.Blocks = append(d.Blocks, BlockFromMap(b))
	}
	return d
}

// BlockFromMap builds a Block record from a decoded JSON object, ignoring
// unrecognized keys.
func BlockFromMap(m map[string]interface{}) Block {
	b := Block{
		Name:       mapString(m, "name"),
		ID:         mapInt(m, "id"),
		VisualType: mapString(m, "visual_type"),
		Properties: mapObject(m, "properties"),
		BlockFeeds: mapObjects(m, "block_feeds"),
	}
	if b.Properties == nil {
		b.Properties = map[string]interface{}{}
	}
	return b
}

// LayoutFromMap builds a Layout record from a decoded JSON object, ignoring
// unrecognized keys.
func LayoutFromMap(m map[string]interface{}) Layout {
	return Layout{
		XL: positionsFromMaps(mapObjects(m, "xl")),
		LG: positionsFromMaps(mapObjects(m, "lg")),
		MD: positionsFromMaps(mapObjects(m, "md")),
		SM: positionsFromMaps(mapObjects(m, "sm")),
		XS: positionsFromMaps(mapObjects(m, "xs")),
	}
}

func positionsFromMaps(ms []map[string]interface{}) []LayoutPosition {
	var positions []LayoutPosition
	for _, m := range ms {
		positions = append(positions, LayoutPosition{
			X: int(mapInt(m, "x")),
			Y: int(mapInt(m, "y")),
			W: int(mapInt(m, "w")),
			H: int(mapInt(m, "h")),
			I: mapString(m, "i"),
		})
	}
	return positions
}

// The map* helpers coerce decoded JSON values to the record field types. A
// missing key, a JSON null, or a value of an incompatible type yields the
// field's zero value.

func mapString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func mapInt(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return n
		}
	}
	return 0
}

func mapFloat(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

func mapBool(m map[string]interface{}, key string) bool {
	v, _ := m[key].(bool)
	return v
}

func mapObject(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func mapObjects(m map[string]interface{}, key string) []map[string]interface{} {
	list, _ := m[key].([]interface{})
	var objects []map[string]interface{}
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			objects = append(objects, obj)
		}
	}
	return objects
}

func mapStrings(m map[string]interface{}, key string) []string {
	list, _ := m[key].([]interface{})
	var strs []string
	for _, item := range list {
		if s, ok := item.(string); ok {
			strs = append(strs, s)
		}
	}
	return strs
}
