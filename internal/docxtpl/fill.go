// Package docxtpl fills .docx invoice templates by literal placeholder
// substitution. A .docx file is a ZIP archive; the visible text lives in
// word/document.xml plus the header and footer parts. The token set is closed
// and known ahead of time, so substitution operates directly on the XML text
// of those parts and reaches body paragraphs and table cells alike; values
// are XML-escaped on the way in.
package docxtpl

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrTemplateNotFound is returned when the template path does not resolve.
var ErrTemplateNotFound = errors.New("template file not found")

// isTextPart reports whether an archive member carries document text.
func isTextPart(name string) bool {
	return name == "word/document.xml" ||
		strings.HasPrefix(name, "word/header") ||
		strings.HasPrefix(name, "word/footer")
}

// xmlEscaper escapes substitution values so they stay valid XML text.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// Fill reads the template document, replaces every occurrence of each
// placeholder token with its mapped value, and writes the filled document to
// outputPath. Tokens must appear as literal text in the template (no
// formatting change mid-token).
func Fill(templatePath, outputPath string, placeholders map[string]string) error {
	reader, err := zip.OpenReader(templatePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output document: %w", err)
	}
	defer out.Close()

	writer := zip.NewWriter(out)
	for _, file := range reader.File {
		if err := copyMember(writer, file, placeholders); err != nil {
			writer.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize output document: %w", err)
	}
	return nil
}

func copyMember(writer *zip.Writer, file *zip.File, placeholders map[string]string) error {
	rc, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive member %s: %w", file.Name, err)
	}
	defer rc.Close()

	dst, err := writer.Create(file.Name)
	if err != nil {
		return fmt.Errorf("failed to create archive member %s: %w", file.Name, err)
	}

	if !isTextPart(file.Name) {
		if _, err := io.Copy(dst, rc); err != nil {
			return fmt.Errorf("failed to copy archive member %s: %w", file.Name, err)
		}
		return nil
	}

	content, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read archive member %s: %w", file.Name, err)
	}

	text := string(content)
	for token, value := range placeholders {
		text = strings.ReplaceAll(text, token, xmlEscaper.Replace(value))
	}

	if _, err := dst.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write archive member %s: %w", file.Name, err)
	}
	return nil
}
