package ipc

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"resty.dev/v3"
)

func newClient() *resty.Client {
	path := SocketPath()

	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			DialContext: func(_ context.Context, _, _ string) (net.Conn, error) {
				return net.Dial("unix", path)
			},
		},
	})

	client.SetBaseURL("http://driftpaper")
	client.SetHeader("Content-Type", "application/json")
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "driftpaper")

	return client
}

// SendStatus asks a running daemon for its status.
func SendStatus() (*StatusResponse, error) {
	result := StatusResponse{}

	response, err := newClient().R().SetResult(&result).Get("/status")
	if err != nil {
		return nil, err
	}
	if response.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("error requesting status: %s", response.Status())
	}

	return &result, nil
}

// SendStop asks a running daemon to exit.
func SendStop() error {
	return post("/stop", nil)
}

// SendNext asks a running daemon to advance to the next wallpaper.
func SendNext() error {
	return post("/next", nil)
}

// SendLoad replaces the running daemon's wallpaper list.
func SendLoad(wallpapers []string) error {
	return post("/load", wallpapers)
}

func post(path string, body any) error {
	req := newClient().R()
	if body != nil {
		req.SetBody(body)
	}

	response, err := req.Post(path)
	if err != nil {
		return err
	}
	if response.StatusCode() != http.StatusOK {
		return fmt.Errorf("error sending command: %s", response.Status())
	}

	return nil
}
