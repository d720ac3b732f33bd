// Package server exposes the class file decoder over HTTP.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/tliron/commonlog"

	"github.com/TheDevMinerTV/oxidized-java/classfile"
	"github.com/TheDevMinerTV/oxidized-java/format"
)

const (
	HeaderRequestID = "X-Request-Id"

	DefaultMaxUploadBytes = 16 << 20
)

var log = commonlog.GetLogger("oxj.server")

type Server struct {
	maxUpload int64
}

// New returns a Server accepting uploads of at most maxUpload bytes; zero
// or less selects DefaultMaxUploadBytes.
func New(maxUpload int64) *Server {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &Server{maxUpload: maxUpload}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.POST("/v1/classfiles", s.handleDecode)
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Offset  *int64 `json:"offset,omitempty"`
}

func writeError(c *echo.Context, status int, kind, msg string, offset *int64) error {
	return c.JSON(status, map[string]any{
		"error": ErrorBody{Kind: kind, Message: msg, Offset: offset},
	})
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleDecode decodes the raw request body as a class file and replies
// with its dump, JSON unless ?format=line is given.
func (s *Server) handleDecode(c *echo.Context) error {
	id := uuid.NewString()
	c.Response().Header().Set(HeaderRequestID, id)

	name := c.QueryParam("format")
	if name == "" {
		name = "json"
	}
	var buf bytes.Buffer
	enc, err := format.New(name, &buf)
	if err != nil {
		return writeError(c, http.StatusBadRequest, "invalid-format", err.Error(), nil)
	}

	body := http.MaxBytesReader(c.Response(), c.Request().Body, s.maxUpload)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warningf("request %s: upload exceeds %d bytes", id, s.maxUpload)
			return writeError(c, http.StatusRequestEntityTooLarge, "too-large",
				fmt.Sprintf("class file exceeds %d bytes", s.maxUpload), nil)
		}
		return writeError(c, http.StatusBadRequest, "read-error", err.Error(), nil)
	}

	cf, err := classfile.ParseBytes(data)
	if err != nil {
		var fe *classfile.FormatError
		if errors.As(err, &fe) {
			log.Infof("request %s: rejected %d bytes: %v", id, len(data), err)
			return writeError(c, http.StatusUnprocessableEntity, fe.Kind.String(), fe.Error(), &fe.Offset)
		}
		log.Errorf("request %s: %v", id, err)
		return writeError(c, http.StatusInternalServerError, "internal", err.Error(), nil)
	}

	if err := enc.Encode(cf); err != nil {
		log.Errorf("request %s: encode %s: %v", id, cf.ClassName(), err)
		return writeError(c, http.StatusUnprocessableEntity, "encode-error", err.Error(), nil)
	}
	log.Infof("request %s: decoded %s (%d bytes, %d pool slots)", id, cf.ClassName(), len(data), len(cf.ConstantPool))

	contentType := echo.MIMEApplicationJSON
	if name == "line" {
		contentType = echo.MIMETextPlainCharsetUTF8
	}
	return c.Blob(http.StatusOK, contentType, buf.Bytes())
}
