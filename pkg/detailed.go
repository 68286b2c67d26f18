package splendir

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// FileRecord is the metadata extracted for one file by a detailed scan.
// Zero times mean the platform could not provide the value.
type FileRecord struct {
	Name      string
	Path      string
	ParentDir string
	Size      int64
	Created   time.Time
	Modified  time.Time
	Accessed  time.Time
	MD5       string
	SHA256    string
	SHA512    string
	Format    string
	MIMEType  string
}

// HasDigest reports whether the digest for typeID was computed
func (r FileRecord) HasDigest(typeID uint16) bool {
	switch typeID {
	case HashTypeMD5:
		return r.MD5 != NotCalculated
	case HashTypeSHA256:
		return r.SHA256 != NotCalculated
	case HashTypeSHA512:
		return r.SHA512 != NotCalculated
	default:
		return false
	}
}

// ScanDetailed returns one FileRecord per retained regular file below root,
// ordered by depth and then path.
func (s *DirectoryScanner) ScanDetailed(root string, progress ProgressCallback) ([]FileRecord, error) {
	defer VerboseEnter()()

	w, rootEntry, err := s.prepare(root)
	if err != nil {
		return nil, err
	}

	emitter := newProgressEmitter(progress, s.config.Cancel)
	emitter.emit(0, StatusCollecting)

	var candidates []walkEntry
	err = w.walk(rootEntry, func(e walkEntry) {
		if e.isRegular() {
			candidates = append(candidates, e)
		}
	})
	if err != nil {
		return nil, err
	}
	VerboseLog(1, "collected %d file(s) under %s", len(candidates), w.root)

	sortByDepthThenPath(candidates)

	pool := newRecordPool(s.config, emitter, len(candidates))
	for i, c := range candidates {
		if w.cancelled() {
			break
		}
		pool.Submit(recordJob{index: i, entry: c})
	}
	pool.FinishSubmitting()
	pool.Wait()

	if w.cancelled() {
		VerboseLog(1, "detailed scan of %s cancelled", w.root)
		return nil, cancelledError(w.root)
	}

	records := pool.Records()
	emitter.emit(1.0, StatusComplete)
	return records, nil
}

func sortByDepthThenPath(entries []walkEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].depth != entries[j].depth {
			return entries[i].depth < entries[j].depth
		}
		return entries[i].path < entries[j].path
	})
}

type recordJob struct {
	index int
	entry walkEntry
}

// recordPool is a fixed set of workers extracting FileRecords from a job channel
type recordPool struct {
	jobs      chan recordJob
	wg        sync.WaitGroup
	cfg       ScannerConfig
	emitter   *progressEmitter
	total     int
	completed atomic.Int64
	results   []*FileRecord

	closeMutex sync.Mutex
	closed     bool
}

func newRecordPool(cfg ScannerConfig, emitter *progressEmitter, total int) *recordPool {
	workers := cfg.workers()
	if total > 0 && workers > total {
		workers = total
	}

	pool := &recordPool{
		jobs:    make(chan recordJob, 100),
		cfg:     cfg,
		emitter: emitter,
		total:   total,
		results: make([]*FileRecord, total),
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool
}

// Submit queues a job; it blocks while the queue is full
func (p *recordPool) Submit(job recordJob) {
	p.jobs <- job
}

// FinishSubmitting signals that no more jobs will be submitted
func (p *recordPool) FinishSubmitting() {
	p.closeMutex.Lock()
	defer p.closeMutex.Unlock()

	if !p.closed {
		close(p.jobs)
		p.closed = true
	}
}

// Wait blocks until every worker has drained the queue
func (p *recordPool) Wait() {
	p.wg.Wait()
}

// Records returns the successful results in submission order
func (p *recordPool) Records() []FileRecord {
	out := make([]FileRecord, 0, len(p.results))
	for _, r := range p.results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (p *recordPool) worker() {
	defer p.wg.Done()

	for job := range p.jobs {
		// undispatched work is drained without being processed
		if p.cfg.Cancel.IsCancelled() {
			continue
		}

		debugLog("hash", "processing file", zap.String("path", job.entry.path))
		rec, err := buildRecord(job.entry, p.cfg)
		if err != nil {
			Logger().Warn("Error processing file", zap.String("path", job.entry.path), zap.Error(err))
		} else {
			p.results[job.index] = rec
		}

		n := p.completed.Add(1)
		if n%detailedProgressStride == 0 || int(n) == p.total {
			p.emitter.emit(float64(n)/float64(p.total), fmt.Sprintf("Processing files: %d/%d", n, p.total))
		}
	}
}

// buildRecord extracts metadata, digests and identification for one file
func buildRecord(e walkEntry, cfg ScannerConfig) (*FileRecord, error) {
	info := e.info
	created, accessed := fileTimes(e.path, info)

	rec := &FileRecord{
		Name:      e.name,
		Path:      e.path,
		ParentDir: filepath.Dir(e.path),
		Size:      info.Size(),
		Created:   created,
		Modified:  info.ModTime(),
		Accessed:  accessed,
		Format:    NotCalculated,
		MIMEType:  NotCalculated,
	}

	digests, err := HashFile(e.path, cfg.DigestSet(), cfg.bufferSize())
	if err != nil {
		return nil, err
	}
	rec.MD5, rec.SHA256, rec.SHA512 = digests.MD5, digests.SHA256, digests.SHA512

	if cfg.CalculateFormat || cfg.CalculateMIME {
		format, mimeType, err := IdentifyFile(e.path)
		if err != nil {
			return nil, err
		}
		if cfg.CalculateFormat {
			rec.Format = format
		}
		if cfg.CalculateMIME {
			rec.MIMEType = mimeType
		}
	}

	return rec, nil
}

// FormatTimestamp renders a record time as "2006-01-02 15:04:05" in local
// time, or "Unknown" for an unavailable value.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
