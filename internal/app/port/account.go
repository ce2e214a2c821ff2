package port

// AccountProvider resolves the connected user's wallet address. An empty
// string means no account is connected; dependent reads are then skipped,
// not attempted.
type AccountProvider interface {
	CurrentAddress() string
}
