package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/formulalab/masterclass/pkg/deck"
	"github.com/formulalab/masterclass/pkg/errors"
	"github.com/formulalab/masterclass/pkg/lesson"
	"github.com/formulalab/masterclass/pkg/raster"
	"github.com/formulalab/masterclass/pkg/render"
	"github.com/formulalab/masterclass/pkg/view"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 18))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// fakeRasterizer returns a fixed capture, optionally failing on the
// n-th call (1-based).
type fakeRasterizer struct {
	mu      sync.Mutex
	capture []byte
	calls   int
	failOn  int
	block   chan struct{}
}

func (f *fakeRasterizer) Capture(ctx context.Context, page []byte, opts raster.Options) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failOn > 0 && n == f.failOn {
		return nil, errors.New(errors.ErrCodeCapture, "injected capture failure")
	}
	return f.capture, nil
}

func (f *fakeRasterizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// recordingNotifier counts notices.
type recordingNotifier struct {
	mu     sync.Mutex
	done   []*Result
	failed []string
}

func (n *recordingNotifier) Done(res *Result) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.done = append(n.done, res)
}

func (n *recordingNotifier) Failed(format string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, format)
}

func (n *recordingNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.done), len(n.failed)
}

type fixture struct {
	exporter *Exporter
	view     *view.HTMLView
	saver    *MemSaver
	notifier *recordingNotifier
	deck     deck.Deck
}

func newFixture(t *testing.T, rz raster.Rasterizer, optFns ...Option) *fixture {
	t.Helper()
	d := deck.Default()
	r, err := render.New(d)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	store := lesson.NewDefaultStore()
	v, err := view.NewHTML(r, store)
	if err != nil {
		t.Fatalf("view.NewHTML: %v", err)
	}

	saver := NewMemSaver()
	notifier := &recordingNotifier{}
	opts := Options{MarkupSettle: time.Millisecond, RasterSettle: time.Millisecond}
	fns := append([]Option{
		WithRasterizer(rz),
		WithSaver(saver),
		WithNotifier(notifier),
	}, optFns...)
	e, err := New(v, store, d, opts, fns...)
	if err != nil {
		t.Fatalf("export.New: %v", err)
	}
	return &fixture{exporter: e, view: v, saver: saver, notifier: notifier, deck: d}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MarkupSettle != 600*time.Millisecond {
		t.Errorf("MarkupSettle = %v, want 600ms", opts.MarkupSettle)
	}
	if opts.RasterSettle != 800*time.Millisecond {
		t.Errorf("RasterSettle = %v, want 800ms", opts.RasterSettle)
	}

	bad := Options{MarkupSettle: -time.Second}
	if err := bad.ValidateAndSetDefaults(); err == nil {
		t.Error("negative settle delay should be rejected")
	}
}

func TestFullDeckZIPRestoresIndex(t *testing.T) {
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t)})
	if err := fx.view.SetActiveIndex(5); err != nil {
		t.Fatal(err)
	}

	res, err := fx.exporter.FullDeckZIP(context.Background())
	if err != nil {
		t.Fatalf("FullDeckZIP: %v", err)
	}
	if got := fx.view.ActiveIndex(); got != 5 {
		t.Errorf("active index after export = %d, want 5", got)
	}
	if res.Slides != len(fx.deck) {
		t.Errorf("Slides = %d, want %d", res.Slides, len(fx.deck))
	}

	data := fx.saver.Artifacts[res.Filename]
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("artifact is not a zip: %v", err)
	}
	if len(zr.File) != len(fx.deck) {
		t.Fatalf("archive has %d entries, want %d", len(zr.File), len(fx.deck))
	}
	for i, f := range zr.File {
		if want := fx.deck.EntryName(i); f.Name != want {
			t.Errorf("entry %d = %q, want %q", i, f.Name, want)
		}
	}

	if done, failed := fx.notifier.counts(); done != 1 || failed != 0 {
		t.Errorf("notices = %d done, %d failed; want 1, 0", done, failed)
	}
}

func TestFullDeckZIPFailureCleansUp(t *testing.T) {
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t), failOn: 7})
	if err := fx.view.SetActiveIndex(3); err != nil {
		t.Fatal(err)
	}

	_, err := fx.exporter.FullDeckZIP(context.Background())
	if errors.GetCode(err) != errors.ErrCodeCapture {
		t.Fatalf("expected %s, got %v", errors.ErrCodeCapture, err)
	}

	if got := fx.view.ActiveIndex(); got != 3 {
		t.Errorf("active index after failure = %d, want 3", got)
	}
	if fx.exporter.Busy() {
		t.Error("exporter still busy after failed export")
	}
	if len(fx.saver.Artifacts) != 0 {
		t.Errorf("failed export saved %d artifacts, want 0", len(fx.saver.Artifacts))
	}
	if done, failed := fx.notifier.counts(); done != 0 || failed != 1 {
		t.Errorf("notices = %d done, %d failed; want 0, 1", done, failed)
	}
}

func TestConcurrentExportRejected(t *testing.T) {
	rz := &fakeRasterizer{capture: testPNG(t), block: make(chan struct{})}
	fx := newFixture(t, rz)

	started := make(chan struct{})
	finished := make(chan error, 1)
	go func() {
		close(started)
		_, err := fx.exporter.FullDeckZIP(context.Background())
		finished <- err
	}()

	<-started
	for !fx.exporter.Busy() {
		time.Sleep(time.Millisecond)
	}

	_, err := fx.exporter.CurrentSlidePDF(context.Background())
	if errors.GetCode(err) != errors.ErrCodeExportInProgress {
		t.Fatalf("expected %s, got %v", errors.ErrCodeExportInProgress, err)
	}

	close(rz.block)
	if err := <-finished; err != nil {
		t.Fatalf("blocked export failed: %v", err)
	}

	// The rejected request must not have produced a notice.
	if done, failed := fx.notifier.counts(); done != 1 || failed != 0 {
		t.Errorf("notices = %d done, %d failed; want 1, 0", done, failed)
	}

	// The flag is clear again, so a new export goes through.
	if _, err := fx.exporter.CurrentSlidePDF(context.Background()); err != nil {
		t.Fatalf("export after release failed: %v", err)
	}
}

func TestCurrentSlidePDFFilename(t *testing.T) {
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t)})
	if err := fx.view.SetActiveIndex(1); err != nil { // "Piano vs Calendario"
		t.Fatal(err)
	}

	res, err := fx.exporter.CurrentSlidePDF(context.Background())
	if err != nil {
		t.Fatalf("CurrentSlidePDF: %v", err)
	}
	want := "lezione-" + lesson.Slug(fx.deck[1].Title) + ".pdf"
	if res.Filename != want {
		t.Errorf("filename = %q, want %q", res.Filename, want)
	}
	if !bytes.HasPrefix(fx.saver.Artifacts[res.Filename], []byte("%PDF-")) {
		t.Error("artifact is not a PDF")
	}
}

func TestCurrentSlidePPTXLazyLoad(t *testing.T) {
	var loads int
	loader := func() (Packager, error) {
		loads++
		return defaultPackagerLoader()
	}
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t)},
		WithPackagerLoader(loader))

	if loads != 0 {
		t.Fatalf("packager loaded before first use: %d loads", loads)
	}
	for i := 0; i < 2; i++ {
		res, err := fx.exporter.CurrentSlidePPTX(context.Background())
		if err != nil {
			t.Fatalf("CurrentSlidePPTX: %v", err)
		}
		if !strings.HasSuffix(res.Filename, ".pptx") {
			t.Errorf("filename = %q, want .pptx suffix", res.Filename)
		}
	}
	if loads != 1 {
		t.Errorf("packager loaded %d times, want 1", loads)
	}
}

func TestFullDeckHTML(t *testing.T) {
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t)})

	res, err := fx.exporter.FullDeckHTML(context.Background())
	if err != nil {
		t.Fatalf("FullDeckHTML: %v", err)
	}
	doc := lesson.Default()
	want := "presentazione-completa-" + lesson.Slug(doc.Title) + ".html"
	if res.Filename != want {
		t.Errorf("filename = %q, want %q", res.Filename, want)
	}

	page := string(fx.saver.Artifacts[res.Filename])
	for i := range fx.deck {
		// Headers pass through the template, so "&" arrives escaped.
		want := html.EscapeString(fx.deck.Header(i))
		if !strings.Contains(page, want) {
			t.Errorf("page missing header %q", want)
		}
	}
	if !strings.Contains(page, "cdn.tailwindcss.com") {
		t.Error("page missing stylesheet script")
	}
	if got := fx.view.ActiveIndex(); got != 0 {
		t.Errorf("active index after export = %d, want 0", got)
	}
}

// rasterFunc adapts a function to the Rasterizer interface.
type rasterFunc func(ctx context.Context, page []byte, opts raster.Options) ([]byte, error)

func (f rasterFunc) Capture(ctx context.Context, page []byte, opts raster.Options) ([]byte, error) {
	return f(ctx, page, opts)
}

func TestWalkCodesForeignErrors(t *testing.T) {
	rz := rasterFunc(func(context.Context, []byte, raster.Options) ([]byte, error) {
		return nil, fmt.Errorf("rasterizer crashed")
	})
	fx := newFixture(t, rz)

	_, err := fx.exporter.FullDeckZIP(context.Background())
	if errors.GetCode(err) != errors.ErrCodeCapture {
		t.Fatalf("foreign error code = %q, want %s", errors.GetCode(err), errors.ErrCodeCapture)
	}
	if !strings.Contains(err.Error(), "slide 1") {
		t.Errorf("error %q does not name the failing slide", err)
	}
}

func TestStaticPageCarriesLessonDetails(t *testing.T) {
	d := deck.Default()
	doc := lesson.Default()
	sections := make([][]byte, len(d))
	for i := range sections {
		sections[i] = []byte("<div>slide</div>")
	}

	page, err := StaticPage(doc, d, sections)
	if err != nil {
		t.Fatalf("StaticPage: %v", err)
	}

	// The title block carries the schedule, the footer the contact.
	for _, want := range []string{
		doc.Teacher, doc.Date, doc.Location, doc.Email,
	} {
		if !bytes.Contains(page, []byte(html.EscapeString(want))) {
			t.Errorf("static page missing %q", want)
		}
	}

	if _, err := StaticPage(doc, d, sections[:3]); errors.GetCode(err) != errors.ErrCodePackaging {
		t.Errorf("partial sections: got %v, want %s", err, errors.ErrCodePackaging)
	}
}

func TestWalkCanceledRestoresIndex(t *testing.T) {
	fx := newFixture(t, &fakeRasterizer{capture: testPNG(t)})
	if err := fx.view.SetActiveIndex(2); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fx.exporter.FullDeckZIP(ctx)
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if got := fx.view.ActiveIndex(); got != 2 {
		t.Errorf("active index after cancel = %d, want 2", got)
	}
	if fx.exporter.Busy() {
		t.Error("exporter still busy after cancel")
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{FormatPDF, FormatPPTX, FormatHTML, FormatZIP} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q): %v", f, err)
		}
	}
	if err := ValidateFormat("docx"); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("expected %s for unknown format", errors.ErrCodeInvalidFormat)
	}
}
