// SPDX-FileCopyrightText: Copyright (C) 2026  David Stainton
// SPDX-License-Identifier: AGPL-3.0-only

package common

import (
	"strings"
)

// TruncatePEMForLogging truncates a PEM string to its header and first
// line of data followed by "...", short enough for a log line.
func TruncatePEMForLogging(pemStr string) string {
	lines := strings.Split(strings.TrimSpace(pemStr), "\n")
	if len(lines) <= 2 {
		return pemStr
	}
	return strings.Join(lines[:2], "\n") + "\n..."
}
