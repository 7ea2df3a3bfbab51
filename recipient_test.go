package pushover

import (
	"testing"
)

func TestRecipientVerify(t *testing.T) {
	test := NewTestClient(t)
	test.AddResponse(NewResponse(200, `{"status":1,"devices":["iphone"]}`))
	test.AddResponse(NewResponse(400, `{"status":0,"errors":["device name is not valid for user"]}`))

	r := test.client.Recipient("USER", "iphone")
	ok, err := r.Verify(ctx)
	test.AssertNoError(err)
	test.AssertEqual(true, ok)
	test.AssertEqual([]string{"iphone"}, r.Devices)

	r = test.client.Recipient("USER", "toaster")
	ok, err = r.Verify(ctx)
	test.AssertNoError(err)
	test.AssertEqual(false, ok)
	test.AssertEqual(0, len(r.Devices))
	test.AssertEqual("toaster", test.Form(1).Get("device"))
}

func TestRecipientMessageDevice(t *testing.T) {
	test := NewTestClient(t)
	test.AddResponse(NewResponse(200, `{"status":1}`))
	test.AddResponse(NewResponse(200, `{"status":1}`))
	test.AddResponse(NewResponse(200, `{"status":1}`))

	r := test.client.Recipient("USER", "iphone")

	_, err := r.Message(ctx, "hi", nil)
	test.AssertNoError(err)
	test.AssertEqual("iphone", test.Form(0).Get("device"))
	test.AssertEqual("USER", test.Form(0).Get("user"))

	opts := &MessageOptions{Device: "desktop"}
	_, err = r.Message(ctx, "hi", opts)
	test.AssertNoError(err)
	test.AssertEqual("desktop", test.Form(1).Get("device"))

	opts = &MessageOptions{Title: "t"}
	_, err = r.Message(ctx, "hi", opts)
	test.AssertNoError(err)
	test.AssertEqual("iphone", test.Form(2).Get("device"))
	// the caller's options are left untouched
	test.AssertEqual("", opts.Device)
}

func TestRecipientGlance(t *testing.T) {
	test := NewTestClient(t)
	test.AddResponse(NewResponse(200, `{"status":1}`))

	_, err := test.client.Recipient("USER", "watch").Glance(ctx,
		&GlanceOptions{Text: "ok"})
	test.AssertNoError(err)
	test.AssertEqual("watch", test.Form(0).Get("device"))
	test.AssertEqual("ok", test.Form(0).Get("text"))
}
