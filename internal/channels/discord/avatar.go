package discord

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	avatarTimeout  = 30 * time.Second
	maxAvatarBytes = 8 << 20
)

// loadAvatar reads an image from a local path or an http(s) URL and returns
// it as the data URI Discord expects for avatar uploads.
func loadAvatar(ctx context.Context, source string) (string, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetchAvatar(ctx, source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return "", err
	}
	return avatarDataURI(data)
}

func fetchAvatar(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build avatar request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch avatar: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read avatar: %w", err)
	}
	if len(data) > maxAvatarBytes {
		return nil, fmt.Errorf("avatar larger than %d bytes", maxAvatarBytes)
	}
	return data, nil
}

func avatarDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("avatar is empty")
	}
	mime := http.DetectContentType(data)
	switch mime {
	case "image/png", "image/jpeg", "image/gif", "image/webp":
	default:
		return "", fmt.Errorf("unsupported avatar type %q", mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
