package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// GenerateID 生成基于时间戳的ID
func GenerateID() int64 {
	return time.Now().UnixNano()
}

// UploadFilename 上传文件的落盘名，只保留原文件的小写扩展名
func UploadFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(original)))
	if len(ext) > 6 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return fmt.Sprintf("%d%s", GenerateID(), ext)
}
