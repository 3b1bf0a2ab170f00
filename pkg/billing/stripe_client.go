package billing

import (
	"caltrack/internal/utils"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
)

// InitStripe wires the Stripe API key from configuration.
func InitStripe() {
	stripe.Key = utils.GetConfig("STRIPE_SECRET_KEY")
}

type (
	// StripeClient is the slice of the Stripe API this package consumes.
	// Reconciliation and webhook sync depend on it so tests can substitute
	// a fake.
	StripeClient interface {
		GetSubscription(id string) (*stripe.Subscription, error)
		LatestSubscriptionForCustomer(customerID string) (*stripe.Subscription, error)
		CreateCustomer(userID string, email string) (string, error)
		CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (*stripe.CheckoutSession, error)
	}

	stripeClient struct{}
)

func NewStripeClient() StripeClient {
	return &stripeClient{}
}

func (c *stripeClient) GetSubscription(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

// LatestSubscriptionForCustomer returns the most recently created
// subscription for the customer, in any status, or nil when there is none.
func (c *stripeClient) LatestSubscriptionForCustomer(customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerID),
		Status:   stripe.String("all"),
	}
	params.Limit = stripe.Int64(10)

	var latest *stripe.Subscription
	iter := subscription.List(params)
	for iter.Next() {
		sub := iter.Subscription()
		if latest == nil || sub.Created > latest.Created {
			latest = sub
		}
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return latest, nil
}

func (c *stripeClient) CreateCustomer(userID string, email string) (string, error) {
	params := &stripe.CustomerParams{
		Metadata: map[string]string{"user_id": userID},
	}
	if email != "" {
		params.Email = stripe.String(email)
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return cust.ID, nil
}

func (c *stripeClient) CreateCheckoutSession(customerID, priceID, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
	}
	return session.New(params)
}
