package main

import (
	"strings"

	"go.uber.org/zap"

	"git.sr.ht/~taiite/servercaps/irc"
)

// readyCode marks the end of offline input.  It cannot collide with a real
// numeric.
const readyCode = -1

// parseLines ingests raw IRC lines or bare token lists into a ready
// Capabilities.  Raw lines with another numeric than code are skipped.
func parseLines(lines []string, code int, logger *zap.Logger) *irc.Capabilities {
	caps := irc.NewCapabilities(irc.CapabilitiesParams{
		ISupport: code,
		Ready:    readyCode,
		Logger:   logger,
	})

	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		msg, err := irc.Tokenize(line)
		if err == nil && msg.IsReply() {
			caps.Ingest(msg.Code(), msg.Text())
			continue
		}
		caps.Ingest(code, line)
	}
	caps.Ingest(readyCode, "")

	return caps
}
