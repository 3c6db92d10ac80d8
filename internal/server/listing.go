package server

import (
	"html/template"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bibekchandsah/fling/internal/bytesize"
)

// listingFile is one row of the listing table.
type listingFile struct {
	Name     string
	Size     string
	Modified string
}

// listingData feeds the listing template.
type listingData struct {
	Files     []listingFile
	FileCount int
	TotalSize string

	Preset       string
	ChunkSize    string
	SocketBuffer string
	MaxFileSize  string
	Ranges       bool
	Cache        bool
	Concurrency  int

	Transfers int64
	Served    string
}

// handleListing renders the HTML file listing with a server config panel.
func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.List(r.Context())
	if err != nil {
		s.logger.WithField("error", err).Error("listing failed")
		http.Error(w, "error listing files", http.StatusInternalServerError)
		return
	}

	data := listingData{
		FileCount:    len(entries),
		Preset:       s.cfg.Preset,
		ChunkSize:    bytesize.Format(s.cfg.ChunkSize),
		SocketBuffer: bytesize.Format(s.cfg.SocketBuffer),
		MaxFileSize:  bytesize.Format(s.cfg.MaxFileSize),
		Ranges:       s.cfg.EnableRanges,
		Cache:        s.cfg.EnableCache,
		Concurrency:  s.cfg.MaxConcurrent,
		Transfers:    s.counter.Transfers(),
		Served:       bytesize.Format(s.counter.Bytes()),
	}

	var total int64
	for _, e := range entries {
		total += e.Size
		data.Files = append(data.Files, listingFile{
			Name:     e.Name,
			Size:     bytesize.Format(e.Size),
			Modified: e.ModifiedAt.Local().Format(time.DateTime),
		})
	}
	data.TotalSize = bytesize.Format(total)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := listingTmpl.Execute(w, data); err != nil {
		s.logger.WithFields(log.Fields{"error": err}).Debug("listing write aborted")
	}
}

var listingTmpl = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>fling — file server</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: system-ui, -apple-system, 'Segoe UI', sans-serif; background: #f8f9fa; padding: 20px; }
  .container { max-width: 1000px; margin: 0 auto; background: white; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); overflow: hidden; }
  .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 25px 30px; }
  .header h1 { font-size: 24px; }
  .header p { opacity: 0.9; font-size: 14px; margin-top: 5px; }
  .config { padding: 15px 30px; background: #f1f3f5; display: flex; flex-wrap: wrap; gap: 20px; font-size: 13px; color: #495057; }
  .config strong { display: block; text-transform: uppercase; font-size: 11px; color: #868e96; }
  .stats { padding: 15px 30px; border-bottom: 1px solid #dee2e6; display: flex; gap: 40px; }
  .stats .value { font-size: 22px; font-weight: 700; }
  .stats .label { font-size: 12px; color: #868e96; }
  .content { padding: 20px 30px 30px; }
  table { width: 100%; border-collapse: collapse; }
  th { text-align: left; padding: 10px; font-size: 12px; text-transform: uppercase; color: #495057; border-bottom: 2px solid #dee2e6; }
  td { padding: 10px; border-bottom: 1px solid #dee2e6; }
  tr:hover { background: #f8f9fa; }
  a { color: #667eea; text-decoration: none; font-weight: 500; word-break: break-all; }
  a:hover { text-decoration: underline; }
  .size { text-align: right; font-family: monospace; }
  .date { color: #868e96; font-size: 13px; }
  .btn { background: #667eea; color: white; padding: 6px 14px; border-radius: 4px; font-size: 12px; font-weight: 600; }
  .btn:hover { background: #5a6fd6; text-decoration: none; }
  .empty { text-align: center; padding: 60px 20px; color: #868e96; }
  .badge { display: inline-block; background: #28a745; color: white; padding: 1px 7px; border-radius: 3px; font-size: 11px; font-weight: 600; }
  .badge.off { background: #adb5bd; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>fling</h1>
    <p>Resumable downloads &bull; bounded-memory streaming</p>
  </div>
  <div class="config">
    <div><strong>Preset</strong>{{.Preset}}</div>
    <div><strong>Chunk size</strong>{{.ChunkSize}}</div>
    <div><strong>Socket buffer</strong>{{.SocketBuffer}}</div>
    <div><strong>Max file</strong>{{.MaxFileSize}}</div>
    <div><strong>Resume</strong>{{if .Ranges}}<span class="badge">on</span>{{else}}<span class="badge off">off</span>{{end}}</div>
    <div><strong>Cache</strong>{{if .Cache}}<span class="badge">on</span>{{else}}<span class="badge off">off</span>{{end}}</div>
    {{if .Concurrency}}<div><strong>Max concurrent</strong>{{.Concurrency}}</div>{{end}}
  </div>
  <div class="stats">
    <div><div class="value">{{.FileCount}}</div><div class="label">Files</div></div>
    <div><div class="value">{{.TotalSize}}</div><div class="label">Total size</div></div>
    <div><div class="value">{{.Transfers}}</div><div class="label">Downloads served</div></div>
    <div><div class="value">{{.Served}}</div><div class="label">Bytes served</div></div>
  </div>
  <div class="content">
    {{if .Files}}
    <table>
      <thead>
        <tr><th>File name</th><th>Size</th><th>Modified</th><th></th></tr>
      </thead>
      <tbody>
        {{range .Files}}
        <tr>
          <td><a href="/{{.Name}}">{{.Name}}</a></td>
          <td class="size">{{.Size}}</td>
          <td class="date">{{.Modified}}</td>
          <td><a class="btn" href="/{{.Name}}">Download</a></td>
        </tr>
        {{end}}
      </tbody>
    </table>
    {{else}}
    <div class="empty">
      <h3>No files available</h3>
      <p>The shared directory is empty.</p>
    </div>
    {{end}}
  </div>
</div>
</body>
</html>
`))
