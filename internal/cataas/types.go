package cataas

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Type selects one of the predefined output sizes.
type Type string

const (
	TypeSquare Type = "square"
	TypeMedium Type = "medium"
	TypeSmall  Type = "small"
	TypeXSmall Type = "xsmall"
)

// Fit controls how the image is cropped into the requested size.
type Fit string

const (
	FitCover   Fit = "cover"
	FitContain Fit = "contain"
	FitFill    Fit = "fill"
	FitInside  Fit = "inside"
	FitOutside Fit = "outside"
)

// Position anchors the crop.
type Position string

const (
	PositionTop         Position = "top"
	PositionRightTop    Position = "right top"
	PositionRight       Position = "right"
	PositionRightBottom Position = "right bottom"
	PositionBottom      Position = "bottom"
	PositionLeftBottom  Position = "left bottom"
	PositionLeft        Position = "left"
	PositionLeftTop     Position = "left top"
	PositionCenter      Position = "center"
)

// Filter selects a colour filter. Custom enables the colour sub-parameters.
type Filter string

const (
	FilterMono   Filter = "mono"
	FilterNegate Filter = "negate"
	FilterCustom Filter = "custom"
)

// Types, Fits, Positions and Filters list the accepted enumeration values in
// display order.
var (
	Types     = []Type{TypeSquare, TypeMedium, TypeSmall, TypeXSmall}
	Fits      = []Fit{FitCover, FitContain, FitFill, FitInside, FitOutside}
	Positions = []Position{
		PositionTop, PositionRightTop, PositionRight, PositionRightBottom,
		PositionBottom, PositionLeftBottom, PositionLeft, PositionLeftTop, PositionCenter,
	}
	Filters = []Filter{FilterMono, FilterNegate, FilterCustom}
)

// PathParams select a resource through the URL path. ID and Tags are
// alternatives; when both are set ID wins.
type PathParams struct {
	ID   string   `json:"id,omitempty" toml:"id,omitempty"`
	Tags []string `json:"tag,omitempty" toml:"tag,omitempty"`
	GIF  bool     `json:"gif,omitempty" toml:"gif,omitempty"`
	Text string   `json:"text,omitempty" toml:"text,omitempty"`
}

// QueryParams are the optional query string parameters. Zero values are
// never serialized.
type QueryParams struct {
	Type   Type `json:"type,omitempty"`
	Width  int  `json:"width,omitempty"`
	Height int  `json:"height,omitempty"`

	Fit      Fit      `json:"fit,omitempty"`
	Position Position `json:"position,omitempty"`

	Filter     Filter  `json:"filter,omitempty"`
	Blur       float64 `json:"blur,omitempty"`
	R          float64 `json:"r,omitempty"`
	G          float64 `json:"g,omitempty"`
	B          float64 `json:"b,omitempty"`
	Brightness float64 `json:"brightness,omitempty"`
	Saturation float64 `json:"saturation,omitempty"`
	Hue        float64 `json:"hue,omitempty"`
	Lightness  float64 `json:"lightness,omitempty"`

	FontSize       int    `json:"fontSize,omitempty"`
	FontColor      string `json:"fontColor,omitempty"`
	FontBackground string `json:"fontBackground,omitempty"`

	HTML bool `json:"html,omitempty"`
	JSON bool `json:"json,omitempty"`
}

// Values returns the truthy fields as query values.
func (q QueryParams) Values() url.Values {
	values := url.Values{}
	setString := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	setInt := func(key string, value int) {
		if value != 0 {
			values.Set(key, strconv.Itoa(value))
		}
	}
	setFloat := func(key string, value float64) {
		if value != 0 {
			values.Set(key, strconv.FormatFloat(value, 'f', -1, 64))
		}
	}
	setBool := func(key string, value bool) {
		if value {
			values.Set(key, "true")
		}
	}

	setString("type", string(q.Type))
	setInt("width", q.Width)
	setInt("height", q.Height)
	setString("fit", string(q.Fit))
	setString("position", string(q.Position))
	setString("filter", string(q.Filter))
	setFloat("blur", q.Blur)
	setFloat("r", q.R)
	setFloat("g", q.G)
	setFloat("b", q.B)
	setFloat("brightness", q.Brightness)
	setFloat("saturation", q.Saturation)
	setFloat("hue", q.Hue)
	setFloat("lightness", q.Lightness)
	setInt("fontSize", q.FontSize)
	setString("fontColor", q.FontColor)
	setString("fontBackground", q.FontBackground)
	setBool("html", q.HTML)
	setBool("json", q.JSON)
	return values
}

// Check reports parameter combinations the API does not accept. URL building
// never calls it; callers that want early feedback do.
func (q QueryParams) Check() error {
	var errs []error
	if q.Type != "" && (q.Width != 0 || q.Height != 0) {
		errs = append(errs, errors.New("type cannot be combined with width/height"))
	}
	if q.HTML && q.JSON {
		errs = append(errs, errors.New("html and json are mutually exclusive"))
	}
	if q.Filter != FilterCustom && q.hasCustomFilter() {
		errs = append(errs, errors.New("colour adjustments require filter=custom"))
	}
	return errors.Join(errs...)
}

func (q QueryParams) hasCustomFilter() bool {
	for _, v := range []float64{q.Blur, q.R, q.G, q.B, q.Brightness, q.Saturation, q.Hue, q.Lightness} {
		if v != 0 {
			return true
		}
	}
	return false
}

// Request bundles the parameters of a single fetch.
type Request struct {
	Path  PathParams
	Query QueryParams
}

// Image is a raw image payload.
type Image struct {
	URL         string
	ContentType string
	Detected    string // mimetype sniffed from Data
	Extension   string // file extension matching Detected, with leading dot
	Data        []byte
}

// HTMLCard is the HTML snippet returned when html=true.
type HTMLCard struct {
	URL      string
	Markup   string
	ImageURL string
	CataasID string
}

// Record is validated image metadata returned when json=true.
type Record struct {
	ID        string
	Mimetype  string
	Size      *float64
	Tags      []string
	CreatedAt time.Time
	EditedAt  time.Time
	UpdatedAt time.Time
}

// HasTag reports whether the record carries tag, ignoring case.
func (r Record) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
