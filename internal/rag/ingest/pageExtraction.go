package ingest

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/akolanti/GoDocQA/internal/config"
	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

var errPageTimeout = errors.New("page extraction timed out")

func extractPlainText(path string) ([]rawPage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, errors.New("file is not valid utf-8 text")
	}
	return []rawPage{{Number: 1, Content: string(data)}}, nil
}

func extractPDF(path string) ([]rawPage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := openPDF(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var pages []rawPage
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// a broken page does not sink the whole file
			packageLogger.Warn("Error parsing pdf page", "file", info.Name(), "page", i, "error", err)
			continue
		}

		pages = append(pages, rawPage{
			Number:  i,
			Content: content,
		})
	}
	return pages, nil
}

// the pdf package panics on some malformed xref tables
func openPDF(f *os.File, size int64) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()
	return pdf.NewReader(f, size)
}

func extractDocx(path string) ([]rawPage, error) {
	text, err := cat.File(path)
	if err != nil {
		return nil, fmt.Errorf("failed to extract docx: %w", err)
	}

	//word files carry no reliable page breaks, so the whole file is one page
	return []rawPage{
		{
			Number:  1,
			Content: text,
		},
	}, nil
}

func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				resChan <- result{err: fmt.Errorf("page parser panic: %v", rec)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.PDFPageExtractTimeout):
		return "", errPageTimeout
	}
}
