// Command pushover sends a message through the Pushover API.
//
//	pushover -u phone -t "Backup" -p 2 -r 60 -e 3600 -wait 10s "backup failed"
//
// Users may be given as a raw user key or as the name of a section in the
// configuration file (default ~/.pushoverrc). Default flag values can be
// kept in a flagfile (default ~/.pushover.flags).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spacemonkeygo/errors"
	"github.com/spacemonkeygo/flagfile"
	"github.com/spacemonkeygo/spacelog"
	"github.com/spacemonkeygo/spacelog/setup"

	"github.com/amozoss/pushover-go"
)

const (
	defaultConfig   = "~/.pushoverrc"
	defaultFlagfile = ".pushover.flags"

	version = `pushover 1.0
This is free software: you are free to change and redistribute it.
There is NO WARRANTY, to the extent permitted by law.`
)

var (
	logger = spacelog.GetLogger()

	UsageError    = errors.NewClass("usage")
	ConfigError   = errors.NewClass("config")
	NotFoundError = errors.NewClass("not found")

	opts = options{Params: params{}}
)

type options struct {
	Endpoint   string
	Token      string
	User       string
	Config     string
	Title      string
	Priority   int
	URL        string
	URLTitle   string
	Retry      int
	Expire     int
	Sound      string
	Device     string
	HTML       bool
	Attachment string
	Params     params
	Verify     bool
	Wait       time.Duration
	Version    bool

	Message string

	// PrioritySet is true when -priority or -p was given, so that an
	// explicit 0 overrides -param priority.
	PrioritySet bool
}

// params collects repeated -param key=value flags.
type params map[string]string

func (p params) String() string {
	pairs := make([]string, 0, len(p))
	for key, value := range p {
		pairs = append(pairs, key+"="+value)
	}
	return strings.Join(pairs, ",")
}

func (p params) Set(pair string) error {
	i := strings.Index(pair, "=")
	if i <= 0 {
		return fmt.Errorf("%q is not key=value", pair)
	}
	p[pair[:i]] = pair[i+1:]
	return nil
}

func init() {
	flag.StringVar(&opts.Endpoint, "endpoint", pushover.DefaultEndpoint, "API base url")
	flag.StringVar(&opts.Token, "token", "", "API token")
	flag.StringVar(&opts.User, "user", "", "user key or section name in the configuration")
	flag.StringVar(&opts.User, "u", "", "shorthand for -user")
	flag.StringVar(&opts.Config, "config", defaultConfig, "configuration file")
	flag.StringVar(&opts.Config, "c", defaultConfig, "shorthand for -config")
	flag.StringVar(&opts.Title, "title", "", "message title")
	flag.StringVar(&opts.Title, "t", "", "shorthand for -title")
	flag.IntVar(&opts.Priority, "priority", 0, "notification priority (-2, -1, 0, 1 or 2)")
	flag.IntVar(&opts.Priority, "p", 0, "shorthand for -priority")
	flag.StringVar(&opts.URL, "url", "", "additional url")
	flag.StringVar(&opts.URLTitle, "url-title", "", "url title")
	flag.IntVar(&opts.Retry, "retry", 0, "resend interval in seconds (required for priority 2)")
	flag.IntVar(&opts.Retry, "r", 0, "shorthand for -retry")
	flag.IntVar(&opts.Expire, "expire", 0, "expiration time in seconds (required for priority 2)")
	flag.IntVar(&opts.Expire, "e", 0, "shorthand for -expire")
	flag.StringVar(&opts.Sound, "sound", "", "notification sound")
	flag.StringVar(&opts.Device, "device", "", "device name, overrides the configuration")
	flag.BoolVar(&opts.HTML, "html", false, "message contains html")
	flag.StringVar(&opts.Attachment, "attachment", "", "image file to attach")
	flag.Var(opts.Params, "param", "extra message parameter as key=value (repeatable)")
	flag.BoolVar(&opts.Verify, "verify", false, "verify the user and list its devices instead of sending")
	flag.DurationVar(&opts.Wait, "wait", 0, "for priority 2, poll the receipt at this interval until done")
	flag.BoolVar(&opts.Version, "version", false, "output version information and exit")
	flag.BoolVar(&opts.Version, "v", false, "shorthand for -version")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] message\n\nSend a message to pushover.\n\n",
			os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flagfile.Load(flagfile.OptFlagfile(flagfilePath()))
	setup.MustSetup(os.Args[0])

	if opts.Version {
		fmt.Println(version)
		return
	}
	opts.Message = strings.Join(flag.Args(), " ")
	opts.PrioritySet = flagGiven("priority", "p")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, &opts, http.DefaultClient, os.Stdout)
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", filepath.Base(os.Args[0]), err)
	if isUsage(err) {
		flag.Usage()
		os.Exit(2)
	}
	os.Exit(1)
}

func flagfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultFlagfile
	}
	return filepath.Join(home, defaultFlagfile)
}

func flagGiven(names ...string) (given bool) {
	flag.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				given = true
			}
		}
	})
	return given
}

func isUsage(err error) bool {
	return UsageError.Contains(err) ||
		pushover.InvalidUserError.Contains(err) ||
		pushover.InvalidParameterError.Contains(err)
}

func run(ctx context.Context, o *options, client pushover.HttpClient,
	stdout io.Writer) error {
	cfg, err := readConfig(o.Config)
	if err != nil {
		return err
	}
	profile, err := cfg.resolve(o.User)
	if err != nil {
		return err
	}
	token := o.Token
	if token == "" {
		token = cfg.Token
	}
	if token == "" {
		return pushover.MissingTokenError.New(
			"no -token given and no token in %s", o.Config)
	}

	recipient := pushover.NewClient(o.Endpoint, token, client).
		Recipient(profile.UserKey, profile.Device)

	if o.Verify {
		return verify(ctx, recipient, stdout)
	}

	if o.Message == "" {
		return UsageError.New("no message given")
	}
	mopts, err := o.messageOptions()
	if err != nil {
		return err
	}
	req, err := recipient.Message(ctx, o.Message, mopts)
	if err != nil {
		return err
	}
	logger.Debugf("message sent: request %s", req.Request)
	if req.Receipt == "" {
		return nil
	}
	fmt.Fprintf(stdout, "receipt: %s\n", req.Receipt)
	if o.Wait <= 0 {
		return nil
	}
	return wait(ctx, req, o.Wait, stdout)
}

// messageOptions merges -param values with the dedicated flags, which take
// precedence.
func (o *options) messageOptions() (*pushover.MessageOptions, error) {
	mopts, err := pushover.ParseMessageOptions(o.Params)
	if err != nil {
		return nil, err
	}
	if o.Title != "" {
		mopts.Title = o.Title
	}
	if o.PrioritySet {
		mopts.Priority = o.Priority
	}
	if o.URL != "" {
		mopts.URL = o.URL
	}
	if o.URLTitle != "" {
		mopts.URLTitle = o.URLTitle
	}
	if o.Retry != 0 {
		mopts.Retry = time.Duration(o.Retry) * time.Second
	}
	if o.Expire != 0 {
		mopts.Expire = time.Duration(o.Expire) * time.Second
	}
	if o.Sound != "" {
		mopts.Sound = o.Sound
	}
	if o.Device != "" {
		mopts.Device = o.Device
	}
	if o.HTML {
		mopts.HTML = true
	}
	if o.Attachment != "" {
		mopts.AttachmentPath = o.Attachment
	}
	mopts.CurrentTimestamp = true

	if mopts.Priority == pushover.Emergency &&
		(mopts.Retry == 0 || mopts.Expire == 0) {
		return nil, UsageError.New("priority of 2 requires expire and retry")
	}
	return mopts, nil
}

// cancelReceipt cancels the receipt of req after ctx ended and returns the
// context's error.
func cancelReceipt(ctx context.Context, req *pushover.MessageRequest) error {
	logger.Noticef("canceling receipt %s", req.Receipt)
	if _, err := req.Cancel(context.Background()); err != nil {
		return err
	}
	return ctx.Err()
}

func verify(ctx context.Context, recipient *pushover.Recipient,
	stdout io.Writer) error {
	ok, err := recipient.Verify(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return NotFoundError.New("%s: user or device not found",
			recipient.User)
	}
	fmt.Fprintf(stdout, "devices: %s\n", strings.Join(recipient.Devices, ", "))
	return nil
}

// wait polls req every interval until it is done. If ctx ends first the
// receipt is canceled.
func wait(ctx context.Context, req *pushover.MessageRequest,
	interval time.Duration, stdout io.Writer) error {
	for {
		done, err := req.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return cancelReceipt(ctx, req)
			}
			return err
		}
		if done {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return cancelReceipt(ctx, req)
		case <-timer.C:
		}
	}

	status := req.Delivery
	switch {
	case status.Acknowledged:
		fmt.Fprintf(stdout, "acknowledged by %s (%s) at %s\n",
			status.AcknowledgedBy, status.AcknowledgedByDevice,
			time.Unix(status.AcknowledgedAt, 0).Format(time.RFC3339))
	case status.CalledBack:
		fmt.Fprintf(stdout, "called back at %s\n",
			time.Unix(status.CalledBackAt, 0).Format(time.RFC3339))
	case status.Expired:
		fmt.Fprintf(stdout, "expired at %s\n",
			time.Unix(status.ExpiresAt, 0).Format(time.RFC3339))
	}
	return nil
}
