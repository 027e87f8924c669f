package content

import (
	"io"
	"os"
)

// CopyFile copies src to dst, overwriting dst if present. Adapted from
// src/utils/utils.go's BackupFile, used by config.Save to keep a
// pre-overwrite copy of config.json.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
