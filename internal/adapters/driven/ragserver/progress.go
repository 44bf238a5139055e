package ragserver

import (
	"io"

	"github.com/custodia-labs/finqa-cli/internal/core/domain"
)

// progressReader reports upload progress as the transport drains the
// request body. Percentages are monotonic in [0, 100]; 100 fires
// exactly once, when the final byte has been read.
type progressReader struct {
	r        io.Reader
	total    int64
	sent     int64
	last     int
	progress domain.ProgressFunc
}

func newProgressReader(r io.Reader, total int64, progress domain.ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, last: -1, progress: progress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.sent += int64(n)
		p.report()
	}
	return n, err
}

func (p *progressReader) report() {
	if p.progress == nil || p.total <= 0 {
		return
	}
	percent := int(p.sent * 100 / p.total)
	if percent > 100 {
		percent = 100
	}
	if percent != p.last {
		p.last = percent
		p.progress(percent)
	}
}
