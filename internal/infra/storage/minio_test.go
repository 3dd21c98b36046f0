package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", contentType("/tmp/accessibility-report-1.PDF"))
	assert.Equal(t, "application/json", contentType("report.json"))
	assert.Equal(t, "text/html", contentType("index.html"))
	assert.Equal(t, "application/octet-stream", contentType("blob"))
}

func TestObjectURL(t *testing.T) {
	assert.Equal(t, "https://minio.local:9000/reports/r/1.pdf", objectURL("https", "minio.local:9000", "reports", "/r/1.pdf"))
	assert.Equal(t, "http://localhost:9000/b/k", objectURL("", "localhost:9000", "b", "k"))
}
