package pushover

import (
	"context"
)

// Recipient is a user key, optionally tied to one of the user's devices.
type Recipient struct {
	User   string
	Device string

	// Devices holds the user's active devices after a successful Verify.
	Devices []string

	client *Client
}

// Recipient returns a Recipient for user that sends through c. device may
// be empty.
func (c *Client) Recipient(user, device string) *Recipient {
	return &Recipient{
		User:   user,
		Device: device,
		client: c,
	}
}

// Verify reports whether the user (and device, if set) exists and records
// the user's devices.
func (r *Recipient) Verify(ctx context.Context) (bool, error) {
	devices, err := r.client.Verify(ctx, r.User, r.Device)
	if err != nil || devices == nil {
		return false, err
	}
	r.Devices = devices
	return true, nil
}

// Message sends text to the recipient, targeting its device unless
// opts names another one.
func (r *Recipient) Message(ctx context.Context, text string,
	opts *MessageOptions) (*MessageRequest, error) {
	if opts == nil {
		opts = &MessageOptions{}
	}
	if opts.Device == "" && r.Device != "" {
		withDevice := *opts
		withDevice.Device = r.Device
		opts = &withDevice
	}
	return r.client.Message(ctx, r.User, text, opts)
}

// Glance updates the recipient's glance widget, targeting its device
// unless opts names another one.
func (r *Recipient) Glance(ctx context.Context, opts *GlanceOptions) (
	*Response, error) {
	if opts == nil {
		opts = &GlanceOptions{}
	}
	if opts.Device == "" && r.Device != "" {
		withDevice := *opts
		withDevice.Device = r.Device
		opts = &withDevice
	}
	return r.client.Glance(ctx, r.User, opts)
}
