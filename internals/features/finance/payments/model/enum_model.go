package model

type PaymentStatus string
type PaymentGatewayProvider string
type GatewayEventStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusOverdue  PaymentStatus = "overdue"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

const (
	GatewayProviderMidtrans PaymentGatewayProvider = "midtrans"
	GatewayProviderFake     PaymentGatewayProvider = "fake"
)

// status proses untuk payment_gateway_events
const (
	GatewayEventReceived  GatewayEventStatus = "received"
	GatewayEventProcessed GatewayEventStatus = "processed"
	GatewayEventIgnored   GatewayEventStatus = "ignored"
	GatewayEventFailed    GatewayEventStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCanceled:
		return PaymentStatus(s), true
	}
	return "", false
}
