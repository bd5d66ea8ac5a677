package capture

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// VerifyDevice checks that adb is reachable and exactly sees an attached
// device; call it once at startup before polling begins.
func (s *Source) VerifyDevice(ctx context.Context) error {
	out, err := s.adb(ctx, "devices")
	if err != nil {
		return fmt.Errorf("adb unavailable, install platform-tools and ensure adb is on PATH: %w", err)
	}
	if !strings.Contains(out, "\tdevice") {
		return errors.New("no adb device detected; enable adb on the emulator and check `adb devices`")
	}
	s.log.Info().Str("devices", strings.ReplaceAll(strings.TrimSpace(out), "\n", " | ")).Msg("adb connected")
	return nil
}

func (s *Source) fragmentsADB(ctx context.Context) ([]string, error) {
	if _, err := s.adb(ctx, "shell", "uiautomator", "dump", s.dumpPath); err != nil {
		return nil, fmt.Errorf("uiautomator dump: %w", err)
	}
	raw, err := s.adb(ctx, "exec-out", "cat", s.dumpPath)
	if err != nil {
		return nil, fmt.Errorf("read ui dump: %w", err)
	}
	if !strings.Contains(raw, "<?xml") {
		return nil, errors.New("ui dump output is not xml")
	}
	return ParseUIDump(raw)
}

func (s *Source) adb(ctx context.Context, args ...string) (string, error) {
	argv := make([]string, 0, len(args)+2)
	if s.serial != "" {
		argv = append(argv, "-s", s.serial)
	}
	argv = append(argv, args...)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.adbPath, argv...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("adb %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// ParseUIDump collects every non-empty text and content-desc attribute from
// a uiautomator window dump, in document order.
func ParseUIDump(xmlText string) ([]string, error) {
	decoder := xml.NewDecoder(strings.NewReader(xmlText))
	var fragments []string
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse ui dump: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "node" {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local != "text" && attr.Name.Local != "content-desc" {
				continue
			}
			if value := strings.TrimSpace(attr.Value); value != "" {
				fragments = append(fragments, value)
			}
		}
	}
	return fragments, nil
}
