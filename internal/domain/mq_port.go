package domain

type Message struct {
	Key   []byte
	Value []byte
}

type MessagePublisher interface {
	Publish(msgs ...Message) error
}
