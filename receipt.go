package pushover

import (
	"context"
	"net/http"
)

// ReceiptStatus is the delivery state of an Emergency message. Times are
// Unix seconds, zero when unset.
type ReceiptStatus struct {
	Done bool

	Expired              bool
	ExpiresAt            int64
	CalledBack           bool
	CalledBackAt         int64
	Acknowledged         bool
	AcknowledgedAt       int64
	AcknowledgedBy       string
	AcknowledgedByDevice string
	LastDeliveredAt      int64
}

type receiptAnswer struct {
	Expired              int    `json:"expired"`
	ExpiresAt            int64  `json:"expires_at"`
	CalledBack           int    `json:"called_back"`
	CalledBackAt         int64  `json:"called_back_at"`
	Acknowledged         int    `json:"acknowledged"`
	AcknowledgedAt       int64  `json:"acknowledged_at"`
	AcknowledgedBy       string `json:"acknowledged_by"`
	AcknowledgedByDevice string `json:"acknowledged_by_device"`
	LastDeliveredAt      int64  `json:"last_delivered_at"`
}

// MessageRequest is the result of Client.Message. Messages with a priority
// other than Emergency are done as soon as they are sent. Emergency
// messages carry a Receipt and stay pending until Poll observes that the
// notification expired, was acknowledged or reached its callback:
//
//	req, err := client.Message(ctx, user, "Urgent!", &pushover.MessageOptions{
//		Priority: pushover.Emergency,
//		Retry:    time.Minute,
//		Expire:   time.Hour,
//	})
//	...
//	for {
//		done, err := req.Poll(ctx)
//		if err != nil || done {
//			break
//		}
//		time.Sleep(5 * time.Second)
//	}
//
// A MessageRequest is not safe for concurrent use.
type MessageRequest struct {
	*Response
	Priority int
	Receipt  string
	Delivery ReceiptStatus

	client *Client
}

func newMessageRequest(c *Client, resp *Response, priority int) (
	*MessageRequest, error) {
	req := &MessageRequest{
		Response: resp,
		Priority: priority,
		client:   c,
	}
	if priority != Emergency {
		req.Delivery.Done = true
		return req, nil
	}
	if resp.Receipt == "" {
		return nil, Error.New("emergency message %s sent without receipt",
			resp.Request)
	}
	req.Receipt = resp.Receipt
	return req, nil
}

// Done reports whether the message reached a final state.
func (m *MessageRequest) Done() bool { return m.Delivery.Done }

// Poll fetches the receipt status of a pending Emergency message and
// returns whether it is done. Once done, Poll returns true without
// contacting the API.
func (m *MessageRequest) Poll(ctx context.Context) (bool, error) {
	if m.Delivery.Done {
		return true, nil
	}

	resp, err := m.client.do(ctx, http.MethodGet,
		receiptPath+m.Receipt+".json", nil, nil)
	if err != nil {
		return false, err
	}
	var answer receiptAnswer
	if err := resp.Decode(&answer); err != nil {
		return false, err
	}

	m.Delivery = ReceiptStatus{
		Expired:              answer.Expired != 0,
		ExpiresAt:            answer.ExpiresAt,
		CalledBack:           answer.CalledBack != 0,
		CalledBackAt:         answer.CalledBackAt,
		Acknowledged:         answer.Acknowledged != 0,
		AcknowledgedAt:       answer.AcknowledgedAt,
		AcknowledgedBy:       answer.AcknowledgedBy,
		AcknowledgedByDevice: answer.AcknowledgedByDevice,
		LastDeliveredAt:      answer.LastDeliveredAt,
	}
	m.Delivery.Done = m.Delivery.Expired || m.Delivery.CalledBack ||
		m.Delivery.Acknowledged
	if m.Delivery.Done {
		logger.Noticef("receipt %s done: expired=%t called_back=%t acknowledged=%t",
			m.Receipt, m.Delivery.Expired, m.Delivery.CalledBack,
			m.Delivery.Acknowledged)
	}
	return m.Delivery.Done, nil
}

// Cancel stops the retries of a pending Emergency message. It does not
// change the local status; a later Poll observes the outcome. Cancel on a
// done message returns a nil Response and does nothing.
func (m *MessageRequest) Cancel(ctx context.Context) (*Response, error) {
	if m.Delivery.Done {
		return nil, nil
	}
	return m.client.do(ctx, http.MethodPost,
		receiptPath+m.Receipt+"/cancel.json", nil, nil)
}
