package workloads

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sysforge/burnin/hardware"
	"github.com/sysforge/burnin/scoring"
	"github.com/sysforge/burnin/types"
)

const (
	storageTestFileName = "burnin_storage_test.tmp"
	storageMetadataDir  = "burnin_metadata_test"
	writeProbeFileName  = ".burnin_write_test"

	seqBufferSize  = 1 << 20 // 1 MiB sequential I/O blocks
	randBufferSize = 4 << 10 // 4 KiB random I/O blocks
)

// StorageIOTest measures sequential throughput, random 4 KiB IOPS and
// metadata operation health on each test path. Test files are removed after
// each path and again by Cleanup, which is idempotent.
type StorageIOTest struct {
	log logrus.FieldLogger

	// paths used by the last Execute, retained so Cleanup can sweep them
	// even when Execute aborted early.
	lastPaths []string
}

func NewStorageIOTest(log logrus.FieldLogger) *StorageIOTest {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StorageIOTest{log: log}
}

func (t *StorageIOTest) Name() string {
	return "storage_io"
}

func (t *StorageIOTest) DetectHardware() (*types.HardwareSnapshot, error) {
	return hardware.Probe()
}

func (t *StorageIOTest) EstimateDuration(cfg *types.TestConfig) time.Duration {
	return cfg.Duration
}

func (t *StorageIOTest) Execute(cfg *types.TestConfig) (*types.TestResult, error) {
	start := time.Now()

	paths := cfg.StoragePaths
	if len(paths) == 0 {
		paths = detectTestPaths()
	}
	if len(paths) == 0 {
		return nil, types.NewInsufficientResources("no suitable storage paths found for testing")
	}
	t.lastPaths = paths

	t.log.WithField("paths", paths).Info("starting storage I/O test")

	fileSize := cfg.StorageFileSize
	if fileSize == 0 {
		fileSize = 1 << 30
	}

	var (
		seqReadMBps   float64
		seqWriteMBps  float64
		randReadIOPS  float64
		randWriteIOPS float64
		errorCount    int
	)

	for _, dir := range paths {
		testFile := filepath.Join(dir, storageTestFileName)

		var err error
		if seqWriteMBps, err = sequentialWrite(testFile, fileSize); err != nil {
			removeIfExists(testFile)
			return nil, types.NewIOError("sequential write failed", err)
		}
		if seqReadMBps, err = sequentialRead(testFile, fileSize); err != nil {
			removeIfExists(testFile)
			return nil, types.NewIOError("sequential read failed", err)
		}
		if randReadIOPS, err = randomRead(testFile, fileSize); err != nil {
			removeIfExists(testFile)
			return nil, types.NewIOError("random read failed", err)
		}
		if randWriteIOPS, err = randomWrite(testFile, fileSize); err != nil {
			removeIfExists(testFile)
			return nil, types.NewIOError("random write failed", err)
		}
		if ok, err := metadataOperations(dir); err != nil {
			removeIfExists(testFile)
			return nil, types.NewIOError("metadata operations failed", err)
		} else if !ok {
			errorCount++
		}

		if err := os.Remove(testFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			errorCount++
			t.log.WithError(err).Warn("failed to remove storage test file")
		}
	}

	card := scoring.NewScorecard()
	card.Penalize(errorCount*5, 50)
	card.Penalize(scoring.ShortfallPenalty(seqReadMBps, 50.0, 5.0, 10), 10)
	card.Penalize(scoring.ShortfallPenalty(seqWriteMBps, 20.0, 2.0, 10), 10)
	card.Penalize(scoring.ShortfallPenalty(randReadIOPS, 1000.0, 100.0, 10), 10)
	card.Penalize(scoring.ShortfallPenalty(randWriteIOPS, 500.0, 50.0, 10), 10)

	if errorCount > 0 {
		severity := types.SeverityHigh
		if errorCount > 5 {
			severity = types.SeverityCritical
		}
		card.AddIssue("storage", severity,
			fmt.Sprintf("Storage I/O errors detected (%d errors)", errorCount),
			"Check disk health and file system integrity")
	}
	if seqReadMBps < 10.0 {
		card.AddIssue("storage", types.SeverityMedium,
			fmt.Sprintf("Sequential read performance is very low (%.2f MB/s)", seqReadMBps),
			"Check for disk issues or resource contention")
	}
	if seqWriteMBps < 5.0 {
		card.AddIssue("storage", types.SeverityMedium,
			fmt.Sprintf("Sequential write performance is very low (%.2f MB/s)", seqWriteMBps),
			"Check for disk issues or resource contention")
	}

	return &types.TestResult{
		Name:     t.Name(),
		Status:   card.Status(),
		Score:    card.Score(),
		Duration: time.Since(start),
		Metrics: map[string]any{
			"sequential_read_mbps":  seqReadMBps,
			"sequential_write_mbps": seqWriteMBps,
			"random_read_iops":      randReadIOPS,
			"random_write_iops":     randWriteIOPS,
			"error_count":           errorCount,
			"test_file_size_bytes":  fileSize,
		},
		Issues: card.Issues(),
	}, nil
}

// Cleanup sweeps the known test paths for leftover test files. Safe to call
// repeatedly and before Execute has ever run.
func (t *StorageIOTest) Cleanup() error {
	paths := t.lastPaths
	if len(paths) == 0 {
		paths = detectTestPaths()
	}
	for _, dir := range paths {
		removeIfExists(filepath.Join(dir, storageTestFileName))
		_ = os.RemoveAll(filepath.Join(dir, storageMetadataDir))
	}
	return nil
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).WithField("path", path).Warn("failed to remove test file")
	}
}

// detectTestPaths picks the first writable directory from the usual
// temporary locations, falling back to the working directory.
func detectTestPaths() []string {
	candidates := []string{"/tmp", "/var/tmp", os.TempDir()}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() && isWritable(dir) {
			return []string{dir}
		}
	}
	if cwd, err := os.Getwd(); err == nil && isWritable(cwd) {
		return []string{cwd}
	}
	return nil
}

func isWritable(dir string) bool {
	probe := filepath.Join(dir, writeProbeFileName)
	f, err := os.Create(probe)
	if err != nil {
		return false
	}
	f.Close()
	_ = os.Remove(probe)
	return true
}

func sequentialWrite(path string, size uint64) (mbps float64, err error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, seqBufferSize)
	start := time.Now()
	w := bufio.NewWriter(f)
	remaining := size
	for remaining > 0 {
		n := uint64(len(buf))
		if n > remaining {
			n = remaining
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return 0, err
		}
		remaining -= n
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	if err := f.Sync(); err != nil {
		return 0, err
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(size) / 1e6 / elapsed, nil
}

func sequentialRead(path string, size uint64) (mbps float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, seqBufferSize)
	start := time.Now()
	r := bufio.NewReader(f)
	var total uint64
	for total < size {
		n := uint64(len(buf))
		if n > size-total {
			n = size - total
		}
		read, err := io.ReadFull(r, buf[:n])
		total += uint64(read)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(total) / 1e6 / elapsed, nil
}

func randomRead(path string, size uint64) (iops float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, randBufferSize)
	rng := rand.New(rand.NewSource(42))
	maxPos := int64(0)
	if size > randBufferSize {
		maxPos = int64(size - randBufferSize)
	}
	numOps := uint64(10000)
	if blocks := size / randBufferSize; blocks < numOps {
		numOps = blocks
	}

	start := time.Now()
	var completed uint64
	for i := uint64(0); i < numOps; i++ {
		pos := int64(0)
		if maxPos > 0 {
			pos = rng.Int63n(maxPos + 1)
		}
		read, err := f.ReadAt(buf, pos)
		if read == len(buf) {
			completed++
			continue
		}
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return 0, err
		}
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(completed) / elapsed, nil
}

func randomWrite(path string, size uint64) (iops float64, err error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf := make([]byte, randBufferSize)
	rng := rand.New(rand.NewSource(43))
	maxPos := int64(0)
	if size > randBufferSize {
		maxPos = int64(size - randBufferSize)
	}
	numOps := uint64(5000)
	if blocks := size / randBufferSize; blocks < numOps {
		numOps = blocks
	}

	start := time.Now()
	var completed uint64
	for i := uint64(0); i < numOps; i++ {
		pos := int64(0)
		if maxPos > 0 {
			pos = rng.Int63n(maxPos + 1)
		}
		if _, err := f.WriteAt(buf, pos); err == nil {
			completed++
		}
	}
	if err := f.Sync(); err != nil {
		return 0, err
	}

	elapsed := time.Since(start).Seconds()
	if elapsed <= 0 {
		return 0, nil
	}
	return float64(completed) / elapsed, nil
}

// metadataOperations creates, enumerates and removes 100 small files in a
// scratch directory, verifying every file is visible through readdir.
func metadataOperations(dir string) (bool, error) {
	testDir := filepath.Join(dir, storageMetadataDir)
	if err := os.MkdirAll(testDir, 0o755); err != nil {
		return false, err
	}
	defer os.RemoveAll(testDir)

	for i := 0; i < 100; i++ {
		name := filepath.Join(testDir, fmt.Sprintf("file_%d.txt", i))
		if err := os.WriteFile(name, []byte("test"), 0o644); err != nil {
			return false, err
		}
	}

	entries, err := os.ReadDir(testDir)
	if err != nil {
		return false, err
	}
	count := 0
	for _, e := range entries {
		if e.Type().IsRegular() {
			count++
		}
	}

	return count == 100, nil
}
