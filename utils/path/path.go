package path

import (
	"path/filepath"
	"runtime"
)

// RootPath 專案根目錄：由此檔案 utils/path/path.go 往上兩層
func RootPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("無法取得 caller 位置")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}

// Resolve 相對路徑接在 base 之後；絕對路徑或空字串原樣回傳
func Resolve(base, p string, elem ...string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	parts := append([]string{base}, elem...)
	return filepath.Join(append(parts, p)...)
}
