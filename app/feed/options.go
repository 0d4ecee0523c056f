package feed

import (
	"fmt"
	"strconv"
	"strings"
)

// Image source preference values.
const (
	ImageSourceEnclosure = "enclosure"
	ImageSourceMedia     = "media"
	ImageSourceSerial    = "serial"
)

// Options controls normalization behavior. Options are read-only during
// a single feed's pass; changing them between feeds takes effect on the
// next feed only.
type Options struct {
	CacheEnabled     bool
	CacheDir         string
	CacheTTLMinutes  int
	ParseRSS         bool
	ParseAtom        bool
	BuildSummary     bool
	SummaryMaxLength int
	// ImageSource selects which candidate set supplies item images:
	// "enclosure", "media", or "serial" (enclosure first, media may
	// overwrite).
	ImageSource string
	// DateFormat is a Go reference-time layout. When empty, Item.Date
	// carries the epoch timestamp and DateString stays empty.
	DateFormat string
	// ExtractContent fetches each item link and replaces Content with
	// the extracted article body.
	ExtractContent bool
}

// DefaultOptions returns the option set every session starts from.
func DefaultOptions() *Options {
	return &Options{
		CacheEnabled:     false,
		CacheDir:         "",
		CacheTTLMinutes:  350,
		ParseRSS:         true,
		ParseAtom:        true,
		BuildSummary:     true,
		SummaryMaxLength: 140,
		ImageSource:      ImageSourceSerial,
		DateFormat:       "",
		ExtractContent:   false,
	}
}

// Get returns the value of a string-keyed option, or an error for an
// unrecognized key.
func (o *Options) Get(name string) (string, error) {
	switch name {
	case "cache_enabled":
		return strconv.FormatBool(o.CacheEnabled), nil
	case "cache_directory", "cache_dir":
		return o.CacheDir, nil
	case "cache_ttl_minutes":
		return strconv.Itoa(o.CacheTTLMinutes), nil
	case "parse_rss":
		return strconv.FormatBool(o.ParseRSS), nil
	case "parse_atom":
		return strconv.FormatBool(o.ParseAtom), nil
	case "build_rss_summary":
		return strconv.FormatBool(o.BuildSummary), nil
	case "summary_max_length":
		return strconv.Itoa(o.SummaryMaxLength), nil
	case "image_source_preference":
		return o.ImageSource, nil
	case "date_format":
		return o.DateFormat, nil
	case "extract_content":
		return strconv.FormatBool(o.ExtractContent), nil
	default:
		return "", fmt.Errorf("unknown option: %s", name)
	}
}

// Set assigns a string-keyed option. Boolean and integer options accept
// their usual string forms; an unrecognized key or unparsable value is
// an error.
func (o *Options) Set(name, value string) error {
	switch name {
	case "cache_enabled":
		return setBool(&o.CacheEnabled, name, value)
	case "cache_directory", "cache_dir":
		o.CacheDir = value
	case "cache_ttl_minutes":
		return setInt(&o.CacheTTLMinutes, name, value)
	case "parse_rss":
		return setBool(&o.ParseRSS, name, value)
	case "parse_atom":
		return setBool(&o.ParseAtom, name, value)
	case "build_rss_summary":
		return setBool(&o.BuildSummary, name, value)
	case "summary_max_length":
		return setInt(&o.SummaryMaxLength, name, value)
	case "image_source_preference":
		switch value {
		case ImageSourceEnclosure, ImageSourceMedia, ImageSourceSerial:
			o.ImageSource = value
		default:
			return fmt.Errorf("invalid value for %s: %s", name, value)
		}
	case "date_format":
		o.DateFormat = value
	case "extract_content":
		return setBool(&o.ExtractContent, name, value)
	default:
		return fmt.Errorf("unknown option: %s", name)
	}
	return nil
}

func setBool(dst *bool, name, value string) error {
	v, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", name, value)
	}
	*dst = v
	return nil
}

func setInt(dst *int, name, value string) error {
	v, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid value for %s: %s", name, value)
	}
	*dst = v
	return nil
}
