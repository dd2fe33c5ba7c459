package notifyService

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"betcore/config"
	"betcore/models"
)

// Notifier pushes settlement events to an external sink. Delivery is best
// effort; a failed push is logged and dropped, never retried into the
// settlement path.
type Notifier struct {
	http *resty.Client
	url  string
}

var notifier *Notifier

// Init builds the package-level notifier. A blank sink URL disables it.
func Init() *Notifier {
	notifier = New(config.AppConfig.NotifySinkURL)
	return notifier
}

// Get returns the package-level notifier.
func Get() *Notifier {
	return notifier
}

// New builds a Notifier for the given sink URL.
func New(url string) *Notifier {
	return &Notifier{
		http: resty.New().SetTimeout(5 * time.Second),
		url:  url,
	}
}

type settlementEvent struct {
	TransactionID uint                     `json:"transactionId"`
	UserID        uint                     `json:"userId"`
	Username      string                   `json:"username"`
	Type          models.TransactionType   `json:"type"`
	Status        models.TransactionStatus `json:"status"`
	Amount        int64                    `json:"amount"`
	Balance       int64                    `json:"balance"`
	At            time.Time                `json:"at"`
}

// Settled publishes a settled transaction to the sink.
func (n *Notifier) Settled(txn models.Transaction, user models.User) {
	if n == nil || n.url == "" {
		return
	}
	event := settlementEvent{
		TransactionID: txn.ID,
		UserID:        user.ID,
		Username:      user.Username,
		Type:          txn.Type,
		Status:        txn.Status,
		Amount:        txn.Amount,
		Balance:       user.Balance,
		At:            time.Now(),
	}
	resp, err := n.http.R().SetBody(event).Post(n.url)
	if err != nil {
		log.Printf("[NOTIFY] Sink unreachable: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("[NOTIFY] Sink rejected event for transaction %d: status %d", txn.ID, resp.StatusCode())
	}
}
