package irc

import (
	"bufio"
	"context"
	"fmt"
	"net"

	"golang.org/x/time/rate"
)

const chanCapacity = 64

// ChanInOut reads and writes messages on conn from two goroutines.
//
// in is closed when the connection cannot be read anymore.  Closing out
// closes the connection.  When limit is not nil, outgoing messages wait for
// it, so that the server does not kick us for flooding.
func ChanInOut(ctx context.Context, conn net.Conn, limit *rate.Limiter) (in <-chan Message, out chan<- Message) {
	in_ := make(chan Message, chanCapacity)
	out_ := make(chan Message, chanCapacity)

	go func() {
		r := bufio.NewScanner(conn)
		for r.Scan() {
			msg, err := Tokenize(r.Text())
			if err != nil {
				continue
			}
			in_ <- msg
		}
		close(in_)
	}()

	go func() {
		for msg := range out_ {
			if limit != nil {
				if err := limit.Wait(ctx); err != nil {
					break
				}
			}
			_, err := fmt.Fprintf(conn, "%s\r\n", msg.String())
			if err != nil {
				break
			}
		}
		_ = conn.Close()
		for range out_ {
		}
	}()

	return in_, out_
}
