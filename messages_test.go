package pushover

import (
	"strings"
	"testing"
	"time"

	"github.com/amozoss/atest"
)

func TestParseMessageOptions(t *testing.T) {
	test := atest.Wrap(t, 2)

	opts, err := ParseMessageOptions(map[string]string{
		"title":      "title",
		"priority":   "2",
		"sound":      "bike",
		"callback":   "https://example.com/cb",
		"timestamp":  "true",
		"url":        "https://example.com",
		"url_title":  "example",
		"device":     "iphone",
		"retry":      "60",
		"expire":     "3600",
		"html":       "1",
		"attachment": "/tmp/cat.jpg",
	})
	test.AssertNoError(err)
	test.AssertEqual(MessageOptions{
		Title:            "title",
		Priority:         Emergency,
		Sound:            "bike",
		Callback:         "https://example.com/cb",
		CurrentTimestamp: true,
		URL:              "https://example.com",
		URLTitle:         "example",
		Device:           "iphone",
		Retry:            time.Minute,
		Expire:           time.Hour,
		HTML:             true,
		AttachmentPath:   "/tmp/cat.jpg",
	}, *opts)

	opts, err = ParseMessageOptions(map[string]string{"timestamp": "1600000000"})
	test.AssertNoError(err)
	test.AssertEqual(int64(1600000000), opts.Timestamp)
	test.AssertEqual(false, opts.CurrentTimestamp)
}

func TestParseMessageOptionsInvalidKey(t *testing.T) {
	test := atest.Wrap(t, 2)

	for _, key := range []string{"text", "subtext", "count", "percent",
		"token", "user", "message", "Title", "url-title", ""} {
		_, err := ParseMessageOptions(map[string]string{
			"title": "ok",
			key:     "value",
		})
		test.Assert(InvalidParameterError.Contains(err))
		test.Assert(strings.Contains(err.Error(), key+": invalid message parameter"))
	}
}

func TestParseMessageOptionsInvalidValue(t *testing.T) {
	test := atest.Wrap(t, 2)

	for key, value := range map[string]string{
		"priority":  "high",
		"retry":     "1m",
		"expire":    "soon",
		"timestamp": "now",
		"html":      "maybe",
	} {
		_, err := ParseMessageOptions(map[string]string{key: value})
		test.Assert(InvalidParameterError.Contains(err))
		test.Assert(strings.Contains(err.Error(), key))
	}
}

func TestParseGlanceOptions(t *testing.T) {
	test := atest.Wrap(t, 2)

	opts, err := ParseGlanceOptions(map[string]string{
		"title":   "build",
		"text":    "passing",
		"subtext": "main",
		"count":   "7",
		"percent": "90",
		"device":  "watch",
	})
	test.AssertNoError(err)
	test.AssertEqual("build", opts.Title)
	test.AssertEqual("passing", opts.Text)
	test.AssertEqual("main", opts.Subtext)
	test.AssertEqual(7, *opts.Count)
	test.AssertEqual(90, *opts.Percent)
	test.AssertEqual("watch", opts.Device)

	opts, err = ParseGlanceOptions(nil)
	test.AssertNoError(err)
	test.Assert(opts.Count == nil && opts.Percent == nil)
}

func TestParseGlanceOptionsInvalidKey(t *testing.T) {
	test := atest.Wrap(t, 2)

	for _, key := range []string{"priority", "sound", "callback", "timestamp",
		"url", "url_title", "retry", "expire", "html", "attachment", "message"} {
		_, err := ParseGlanceOptions(map[string]string{key: "1"})
		test.Assert(InvalidParameterError.Contains(err))
		test.Assert(strings.Contains(err.Error(), key+": invalid glance parameter"))
	}

	_, err := ParseGlanceOptions(map[string]string{"count": "many"})
	test.Assert(InvalidParameterError.Contains(err))
}

func TestMessageOptionsValues(t *testing.T) {
	test := atest.Wrap(t, 2)

	params := (&MessageOptions{}).values()
	test.AssertEqual(0, len(params))

	params = (&MessageOptions{
		Priority: Lowest,
		Retry:    90 * time.Second,
		Expire:   1500 * time.Millisecond,
	}).values()
	test.AssertEqual("-2", params.Get("priority"))
	test.AssertEqual("90", params.Get("retry"))
	test.AssertEqual("1", params.Get("expire"))
}
