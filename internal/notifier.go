package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

//go:generate mockgen -source=notifier.go -destination=mock/notifier.go

type INotifier interface {
	Notify(ctx context.Context, mobileNumber, message string) error
}

// CollectionMessage is the text sent to a customer once their order is collected.
func CollectionMessage(customerName, receiptNumber, business string) string {
	return fmt.Sprintf("Hi %s, your laundry order #%s has been collected. Thank you for using %s!", customerName, receiptNumber, business)
}

// SMSNotifier posts messages to a Fast2SMS-compatible bulk endpoint.
type SMSNotifier struct {
	client   *http.Client
	logger   *zap.SugaredLogger
	url      string
	apiKey   string
	senderID string
}

func NewSMSNotifier(client *http.Client, logger *zap.SugaredLogger, url, apiKey, senderID string) *SMSNotifier {
	if client == nil {
		client = &http.Client{}
	}
	return &SMSNotifier{client: client, logger: logger, url: url, apiKey: apiKey, senderID: senderID}
}

func (n SMSNotifier) Notify(ctx context.Context, mobileNumber, message string) error {
	body, err := json.Marshal(smsRequest{
		SenderID: n.senderID,
		Message:  message,
		Language: "english",
		Route:    "v3",
		Numbers:  mobileNumber,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("authorization", n.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailure, err)
	}
	defer res.Body.Close()

	var buf bytes.Buffer
	if _, err = io.Copy(&buf, res.Body); err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailure, err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: gateway responded %d", ErrNotificationFailure, res.StatusCode)
	}

	sr := smsResponse{}
	if err = json.Unmarshal(buf.Bytes(), &sr); err != nil {
		return fmt.Errorf("%w: %s", ErrNotificationFailure, err)
	}
	if !sr.Return {
		return fmt.Errorf("%w: gateway rejected message to %s", ErrNotificationFailure, mobileNumber)
	}

	n.logger.Infof("collection sms sent to %s", mobileNumber)
	return nil
}

// LogNotifier only logs messages. Used when no SMS gateway is configured.
type LogNotifier struct {
	logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n LogNotifier) Notify(_ context.Context, mobileNumber, message string) error {
	n.logger.Infow("sms gateway not configured, message not sent", "mobile", mobileNumber, "message", message)
	return nil
}

type smsRequest struct {
	SenderID string `json:"sender_id"`
	Message  string `json:"message"`
	Language string `json:"language"`
	Route    string `json:"route"`
	Numbers  string `json:"numbers"`
}

type smsResponse struct {
	Return bool `json:"return"`
}
