package pushover

import (
	"io"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// Message priorities.
const (
	Lowest    = -2
	Low       = -1
	Normal    = 0
	High      = 1
	Emergency = 2
)

// MessageOptions are the optional properties of a message. Zero values are
// left out of the request.
type MessageOptions struct {
	Title    string
	Priority int
	Sound    string
	Callback string

	// Timestamp is the Unix time shown for the message. CurrentTimestamp
	// overrides it with the time of the call.
	Timestamp        int64
	CurrentTimestamp bool

	URL      string
	URLTitle string
	Device   string

	// Retry and Expire are required by the API for Emergency messages and
	// are sent in whole seconds.
	Retry  time.Duration
	Expire time.Duration

	HTML bool

	// Attachment is sent as a multipart file part. When it is nil and
	// AttachmentPath is set, the file at that path is sent instead.
	Attachment     io.Reader
	AttachmentName string
	AttachmentPath string
}

func (o *MessageOptions) values() url.Values {
	params := url.Values{}
	setString(params, "title", o.Title)
	if o.Priority != Normal {
		params.Set("priority", strconv.Itoa(o.Priority))
	}
	setString(params, "sound", o.Sound)
	setString(params, "callback", o.Callback)
	if o.CurrentTimestamp {
		params.Set("timestamp", strconv.FormatInt(nowHook().Unix(), 10))
	} else if o.Timestamp != 0 {
		params.Set("timestamp", strconv.FormatInt(o.Timestamp, 10))
	}
	setString(params, "url", o.URL)
	setString(params, "url_title", o.URLTitle)
	setString(params, "device", o.Device)
	setSeconds(params, "retry", o.Retry)
	setSeconds(params, "expire", o.Expire)
	if o.HTML {
		params.Set("html", "1")
	}
	return params
}

// ParseMessageOptions builds MessageOptions from string parameters named
// as in the API: title, priority, sound, callback, timestamp, url,
// url_title, device, retry, expire, html and attachment. A timestamp of
// "true" means the time of sending, retry and expire are seconds, and
// attachment is a file path. Any other key fails with
// InvalidParameterError.
func ParseMessageOptions(params map[string]string) (*MessageOptions, error) {
	opts := &MessageOptions{}
	for _, key := range sortedKeys(params) {
		value := params[key]
		var err error
		switch key {
		case "title":
			opts.Title = value
		case "priority":
			opts.Priority, err = strconv.Atoi(value)
		case "sound":
			opts.Sound = value
		case "callback":
			opts.Callback = value
		case "timestamp":
			if value == "true" {
				opts.CurrentTimestamp = true
			} else {
				opts.Timestamp, err = strconv.ParseInt(value, 10, 64)
			}
		case "url":
			opts.URL = value
		case "url_title":
			opts.URLTitle = value
		case "device":
			opts.Device = value
		case "retry":
			opts.Retry, err = parseSeconds(value)
		case "expire":
			opts.Expire, err = parseSeconds(value)
		case "html":
			opts.HTML, err = strconv.ParseBool(value)
		case "attachment":
			opts.AttachmentPath = value
		default:
			return nil, InvalidParameterError.New("%s: invalid message parameter", key)
		}
		if err != nil {
			return nil, InvalidParameterError.New("%s: %v", key, err)
		}
	}
	return opts, nil
}

// GlanceOptions are the properties of a glance. Nil Count and Percent are
// left out of the request.
type GlanceOptions struct {
	Title   string
	Text    string
	Subtext string
	Count   *int
	Percent *int
	Device  string
}

func (o *GlanceOptions) values() url.Values {
	params := url.Values{}
	setString(params, "title", o.Title)
	setString(params, "text", o.Text)
	setString(params, "subtext", o.Subtext)
	if o.Count != nil {
		params.Set("count", strconv.Itoa(*o.Count))
	}
	if o.Percent != nil {
		params.Set("percent", strconv.Itoa(*o.Percent))
	}
	setString(params, "device", o.Device)
	return params
}

// ParseGlanceOptions builds GlanceOptions from the string parameters title,
// text, subtext, count, percent and device. Any other key fails with
// InvalidParameterError.
func ParseGlanceOptions(params map[string]string) (*GlanceOptions, error) {
	opts := &GlanceOptions{}
	for _, key := range sortedKeys(params) {
		value := params[key]
		switch key {
		case "title":
			opts.Title = value
		case "text":
			opts.Text = value
		case "subtext":
			opts.Subtext = value
		case "count", "percent":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, InvalidParameterError.New("%s: %v", key, err)
			}
			if key == "count" {
				opts.Count = &n
			} else {
				opts.Percent = &n
			}
		case "device":
			opts.Device = value
		default:
			return nil, InvalidParameterError.New("%s: invalid glance parameter", key)
		}
	}
	return opts, nil
}

func setString(params url.Values, key, value string) {
	if value != "" {
		params.Set(key, value)
	}
}

func setSeconds(params url.Values, key string, d time.Duration) {
	if d > 0 {
		params.Set(key, strconv.FormatInt(int64(d/time.Second), 10))
	}
}

func parseSeconds(value string) (time.Duration, error) {
	n, err := strconv.Atoi(value)
	return time.Duration(n) * time.Second, err
}

func sortedKeys(params map[string]string) []string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
