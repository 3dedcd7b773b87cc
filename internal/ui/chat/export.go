// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/morganforge/milliy-tui/internal/model"
	"github.com/morganforge/milliy-tui/internal/util"
)

// WriteTranscript writes the conversation as a markdown document. The write
// is atomic so a crash mid-export never leaves a truncated file.
func WriteTranscript(path, title string, msgs []model.Message) error {
	var b strings.Builder

	b.WriteString("# " + title + "\n\n")
	for _, msg := range msgs {
		b.WriteString("**" + msg.Sender.DisplayName() + "**")
		if !msg.CreatedAt.IsZero() {
			b.WriteString(" (" + msg.CreatedAt.Format("2006-01-02 15:04") + ")")
		}
		b.WriteString(":\n\n")

		if msg.Text != "" {
			b.WriteString(msg.Text + "\n\n")
		}
		for _, file := range msg.Files {
			b.WriteString(fmt.Sprintf("- attachment: [%s](%s)\n", file.Name, file.URL))
		}
		if len(msg.Files) > 0 {
			b.WriteString("\n")
		}
	}

	return util.AtomicWriteFile(path, []byte(b.String()), 0o644)
}
