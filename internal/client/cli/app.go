package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
)

var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, api client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: c, client: api, reader: bufio.NewReader(in), out: out}
}

// Run executes one command. The request is bounded by the configured timeout
// once the interactive input is collected.
func (a *App) Run(ctx context.Context, cmd string) error {
	switch cmd {
	case "register", "sign-up":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "ping":
		return a.Ping(ctx)
	case "":
		return fmt.Errorf("%w: expected one of register, login, ping", ErrUnknownCommand)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

func (a *App) Register(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Enter name (optional)", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	phones, err := GetPhones(a.reader, a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.SignUp(ctx, &client.SignUpRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Phones:   phones,
	})
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *App) Login(ctx context.Context) error {
	token := a.config.Token
	if token == "" {
		var err error
		if token, err = GetSimpleText(a.reader, "Enter token", a.out); err != nil {
			return err
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.Login(ctx, token)
	if err != nil {
		return err
	}
	return a.print(resp)
}

func (a *App) Ping(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	_, err := fmt.Fprintln(a.out, "Server is up")
	return err
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.RequestTimeout > 0 {
		return context.WithTimeout(ctx, a.config.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func (a *App) print(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
