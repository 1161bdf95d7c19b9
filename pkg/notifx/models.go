package notifx

// Notification is a message addressed to a client-supplied delivery token.
// The meaning of the token depends on the provider: a device token for push
// gateways, an address for email.
type Notification struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}
