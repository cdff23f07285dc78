// Command server is a minimal transform server speaking the scramble
// wire protocol, for exercising the client end to end: it decodes
// "ACTION LENGTH MESSAGE" request frames and answers each with a
// "LENGTH MESSAGE" response frame in request order.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"scramble"
)

func main() {
	addr := flag.String("addr", net.JoinHostPort(scramble.DefaultHost, scramble.DefaultPort), "listen address")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		logger.Error("listen failed", "addr", *addr, "error", err)
		os.Exit(1)
	}
	logger.Info("server started", "addr", listener.Addr())

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		<-ctx.Done()
		return listener.Close()
	})
	group.Go(func() error {
		for {
			conn, err := listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}

			logger.Info("accepted connection", "remote_addr", conn.RemoteAddr())
			group.Go(func() error {
				defer conn.Close()
				// Unblock serve's reads on shutdown so Wait is not
				// held hostage by connected clients.
				stop := context.AfterFunc(ctx, func() { conn.Close() })
				defer stop()

				if err := serve(conn); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
					logger.Warn("session ended", "remote_addr", conn.RemoteAddr(), "error", err)
				}
				return nil
			})
		}
	})

	if err := group.Wait(); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// serve answers request frames on one connection until the client
// closes it. Responses go out in request order, which is what lets the
// client pipeline without request identifiers.
func serve(conn net.Conn) error {
	r := bufio.NewReader(conn)
	for {
		action, err := readToken(r)
		if err != nil {
			return err
		}
		lengthToken, err := readToken(r)
		if err != nil {
			return fmt.Errorf("read length: %w", err)
		}
		length, err := strconv.Atoi(lengthToken)
		if err != nil || length < 0 {
			return fmt.Errorf("bad length %q", lengthToken)
		}

		message := make([]byte, length)
		if _, err := io.ReadFull(r, message); err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		reply, err := transform(scramble.Action(action), message)
		if err != nil {
			return err
		}
		if _, err := conn.Write(scramble.EncodeResponse(reply)); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
}

// readToken reads up to the next space, returning the token before it.
func readToken(r *bufio.Reader) (string, error) {
	token, err := r.ReadString(' ')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(token, " "), nil
}

func transform(action scramble.Action, message []byte) ([]byte, error) {
	switch action {
	case scramble.ActionUppercase:
		return bytes.ToUpper(message), nil
	case scramble.ActionLowercase:
		return bytes.ToLower(message), nil
	case scramble.ActionReverse:
		out := make([]byte, len(message))
		for i, b := range message {
			out[len(message)-1-i] = b
		}
		return out, nil
	case scramble.ActionShuffle:
		out := append([]byte(nil), message...)
		rand.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
		return out, nil
	case scramble.ActionRandom:
		const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
		out := make([]byte, len(message))
		for i := range out {
			out[i] = letters[rand.Intn(len(letters))]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown action %q", action)
	}
}
