package machine

// Connector relays every value from one upstream receiver to one or more
// downstream senders, in registration order.
type Connector struct {
	rx *Receiver
	tx []*Sender
}

// NewConnector links rx to each of tx. It panics if tx is empty.
func NewConnector(rx *Receiver, tx ...*Sender) *Connector {
	if len(tx) == 0 {
		panic("connector needs at least one downstream sender")
	}
	return &Connector{rx: rx, tx: tx}
}

// Run relays values until the upstream is closed, then closes every
// downstream sender so the end of the stream propagates. A downstream that
// has gone away is skipped.
func (c *Connector) Run() {
	defer func() {
		for _, tx := range c.tx {
			_ = tx.Close()
		}
	}()
	for {
		v, err := c.rx.Recv()
		if err != nil {
			return
		}
		for _, tx := range c.tx {
			_ = tx.Send(v)
		}
	}
}
