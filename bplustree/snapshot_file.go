package bplus

import (
	"fmt"
	"io"
	"os"
)

// snapshotFile holds the open snapshot for a file-backed tree.
// Every write replaces the whole file in place. A crash between the
// truncate and the fsync leaves a truncated snapshot, which the next open
// reports as ErrCorruptSnapshot.
type snapshotFile struct {
	file     *os.File
	filePath string
}

// openSnapshotFile opens or creates the snapshot at path. existed reports
// whether the file was present before the call.
func openSnapshotFile(path string) (f *snapshotFile, existed bool, err error) {
	// Check if the file already exists before OpenFile creates it.
	_, statErr := os.Stat(path)
	existed = statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, false, fmt.Errorf("failed to stat snapshot file %s: %w", path, statErr)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open snapshot file %s: %w", path, err)
	}
	return &snapshotFile{file: file, filePath: path}, existed, nil
}

// ReadAll returns the full snapshot contents.
func (f *snapshotFile) ReadAll() ([]byte, error) {
	if f.file == nil {
		return nil, fmt.Errorf("snapshot file is closed")
	}
	stat, err := f.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat snapshot %s: %w", f.filePath, err)
	}
	data, err := io.ReadAll(io.NewSectionReader(f.file, 0, stat.Size()))
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.filePath, err)
	}
	return data, nil
}

// WriteAll truncates the file, writes data from offset 0 and syncs.
func (f *snapshotFile) WriteAll(data []byte) error {
	if f.file == nil {
		return fmt.Errorf("snapshot file is closed")
	}
	if err := f.file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate snapshot %s: %w", f.filePath, err)
	}
	if _, err := f.file.WriteAt(data, 0); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", f.filePath, err)
	}
	if err := f.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync snapshot %s: %w", f.filePath, err)
	}
	return nil
}

// Close closes the snapshot file
func (f *snapshotFile) Close() error {
	if f.file == nil {
		return nil // Already closed
	}
	err := f.file.Close()
	f.file = nil // Mark as closed
	return err
}
