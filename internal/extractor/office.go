package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/meeting-assistant/internal/domain"
)

const (
	nsWord         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPresentation = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

var slidePath = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

type relationshipsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

func (e *implExtractor) extractDocx(_ context.Context, file domain.UploadedFile, _ string) (string, error) {
	zr, err := openZip(file.Bytes)
	if err != nil {
		return "", err
	}
	rc, err := openZipEntry(zr, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return docxText(rc)
}

// docxText walks the body XML, keeping paragraph breaks as blank lines.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		paras  []string
		cur    strings.Builder
		inText bool
		runs   int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != nsWord {
				continue
			}
			switch t.Name.Local {
			case "r":
				runs++
			case "t":
				inText = true
			case "tab":
				if runs > 0 {
					cur.WriteByte('\t')
				}
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != nsWord {
				continue
			}
			switch t.Name.Local {
			case "r":
				runs--
			case "t":
				inText = false
			case "p":
				paras = append(paras, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}

	return strings.TrimSpace(strings.Join(paras, "\n\n")), nil
}

func (e *implExtractor) extractPresentation(ctx context.Context, file domain.UploadedFile, lang string) (string, error) {
	if !isZip(file.Bytes) {
		out, err := e.runTool(ctx, file, e.cfg.Tools.CatPPT, func(path string) []string {
			return []string{path}
		})
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	}

	zr, err := openZip(file.Bytes)
	if err != nil {
		return "", err
	}

	slides := deckOrder(zr)
	if slides == nil {
		slides = numericOrder(zr)
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("presentation contains no slides")
	}

	var texts []string
	for _, f := range slides {
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		shapes, err := slideShapeTexts(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to parse %s: %w", f.Name, err)
		}
		texts = append(texts, shapes...)
	}

	return strings.Join(texts, "\n"), nil
}

// deckOrder resolves the slide list in ppt/presentation.xml through its
// relationships. It returns nil when the list is missing or does not resolve.
func deckOrder(zr *zip.Reader) []*zip.File {
	var pres presentationXML
	if err := decodeZipEntry(zr, "ppt/presentation.xml", &pres); err != nil || len(pres.SlideIDs) == 0 {
		return nil
	}
	var rels relationshipsXML
	if err := decodeZipEntry(zr, "ppt/_rels/presentation.xml.rels", &rels); err != nil {
		return nil
	}

	targets := make(map[string]string, len(rels.Relationships))
	for _, rel := range rels.Relationships {
		target := rel.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("ppt", target)
		}
		targets[rel.ID] = target
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	slides := make([]*zip.File, 0, len(pres.SlideIDs))
	for _, id := range pres.SlideIDs {
		f, ok := files[targets[id.RelID]]
		if !ok {
			return nil
		}
		slides = append(slides, f)
	}
	return slides
}

// numericOrder sorts slideN.xml parts by N.
func numericOrder(zr *zip.Reader) []*zip.File {
	type slide struct {
		n int
		f *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slidePath.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{n: n, f: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].n < slides[j].n })

	files := make([]*zip.File, len(slides))
	for i, s := range slides {
		files[i] = s.f
	}
	return files
}

// slideShapeTexts returns the text of each shape on a slide, in document order.
// A shape's paragraphs are joined with newlines.
func slideShapeTexts(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		shapes  []string
		paras   []string
		cur     strings.Builder
		inShape int
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Space == nsPresentation && t.Name.Local == "sp":
				if inShape == 0 {
					paras = paras[:0]
				}
				inShape++
			case t.Name.Space == nsDrawing && t.Name.Local == "t":
				inText = inShape > 0
			case t.Name.Space == nsDrawing && t.Name.Local == "br":
				if inShape > 0 {
					cur.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch {
			case t.Name.Space == nsDrawing && t.Name.Local == "t":
				inText = false
			case t.Name.Space == nsDrawing && t.Name.Local == "p":
				if inShape > 0 {
					paras = append(paras, cur.String())
					cur.Reset()
				}
			case t.Name.Space == nsPresentation && t.Name.Local == "sp":
				inShape--
				if inShape == 0 {
					if text := strings.Join(paras, "\n"); strings.TrimSpace(text) != "" {
						shapes = append(shapes, text)
					}
				}
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}

	return shapes, nil
}

func isZip(b []byte) bool {
	return bytes.HasPrefix(b, []byte("PK\x03\x04"))
}

func openZip(b []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("failed to open OOXML container: %w", err)
	}
	return zr, nil
}

func decodeZipEntry(zr *zip.Reader, name string, v interface{}) error {
	rc, err := openZipEntry(zr, name)
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}

func openZipEntry(zr *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s not found in container", name)
}
