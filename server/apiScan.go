package server

import (
	"net/http"

	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/pkg/www"
	"github.com/OfirAtias/LifeShot-AWS-Serverless-System/server/scanner"
	"github.com/julienschmidt/httprouter"
)

// POST /api/scan
// Body: scanner.Options. Prefix and OutputPrefix default from the frames
// config, rooted at the session name.
func (s *Server) httpScan(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	opts := scanner.Options{}
	www.ReadJSON(w, r, &opts, 1024*1024)
	if opts.Session == "" {
		www.PanicBadRequestf("'session' is required")
	}
	if opts.Prefix == "" {
		opts.Prefix = s.Config.Frames.Prefix + opts.Session + "/"
	}
	if opts.OutputPrefix == "" {
		opts.OutputPrefix = s.Config.Frames.OutputPrefix + opts.Session + "/"
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = s.Config.Frames.MaxFrames
	}

	report, err := s.Scanner.Scan(r.Context(), opts)
	www.Check(err)
	www.SendJSON(w, report)
}
