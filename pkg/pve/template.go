package pve

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// AvailableTemplates lists the system container templates known to pveam.
func (c *Client) AvailableTemplates(ctx context.Context) ([]string, error) {
	out, err := c.exec.Run(ctx, "pveam", "available", "-section", "system")
	if err != nil {
		return nil, fmt.Errorf("failed to list available templates: %w", err)
	}

	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		// "system  debian-12-standard_12.7-1_amd64.tar.zst"
		if len(fields) == 2 {
			names = append(names, fields[1])
		}
	}
	return names, nil
}

// ResolveTemplate picks the version-highest template matching prefix from
// the given candidates.
func ResolveTemplate(candidates []string, prefix string) (string, error) {
	var best string
	for _, name := range candidates {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if best == "" || compareVersions(name, best) > 0 {
			best = name
		}
	}
	if best == "" {
		return "", fmt.Errorf("no template matches prefix %q", prefix)
	}
	return best, nil
}

// compareVersions orders template names numerically where digit runs occur
// (so 12.10 sorts above 12.9), lexicographically elsewhere.
func compareVersions(a, b string) int {
	ta, tb := versionTokens(a), versionTokens(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		na, aNum := parseNum(ta[i])
		nb, bNum := parseNum(tb[i])
		switch {
		case aNum && bNum:
			if na != nb {
				if na > nb {
					return 1
				}
				return -1
			}
		default:
			if ta[i] != tb[i] {
				if ta[i] > tb[i] {
					return 1
				}
				return -1
			}
		}
	}
	return len(ta) - len(tb)
}

// versionTokens splits a template name into alternating digit / non-digit runs.
func versionTokens(s string) []string {
	var tokens []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigit(s[i]) != isDigit(s[i-1]) {
			tokens = append(tokens, s[start:i])
			start = i
		}
	}
	return tokens
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseNum(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// TemplateVolID returns the volume identifier of a downloaded template.
func TemplateVolID(storage, name string) string {
	return storage + ":vztmpl/" + name
}

// EnsureTemplate downloads the named template to the given storage unless it
// is already present. Returns the template volume ID.
func (c *Client) EnsureTemplate(ctx context.Context, storage, name string) (string, error) {
	volID := TemplateVolID(storage, name)

	out, err := c.exec.Run(ctx, "pveam", "list", storage)
	if err != nil {
		return "", fmt.Errorf("failed to list templates on %s: %w", storage, err)
	}
	if strings.Contains(out, volID) {
		return volID, nil
	}

	if _, err := c.exec.Run(ctx, "pveam", "download", storage, name); err != nil {
		return "", fmt.Errorf("failed to download template %s: %w", name, err)
	}
	return volID, nil
}
