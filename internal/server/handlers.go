package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backmassage/datestamp/internal/naming"
)

// Response is the envelope of every reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func fail(c *gin.Context, status int, err error) {
	c.JSON(status, Response{Code: status, Message: err.Error()})
}

// NormalizeRequest asks for the full rename decision of one stem.
type NormalizeRequest struct {
	Stem     string     `json:"stem" binding:"required"`
	Parent   string     `json:"parent"`
	Modified *time.Time `json:"modified"` // RFC 3339; omitted means unknown
}

// NormalizeResponse is the decision for one stem.
type NormalizeResponse struct {
	Original    string `json:"original"`
	New         string `json:"new"`
	Changed     bool   `json:"changed"`
	Date        string `json:"date,omitempty"`
	YearSource  string `json:"yearSource,omitempty"`
	MonthSource string `json:"monthSource,omitempty"`
}

// FixRequest asks for the date-fixing pass only.
type FixRequest struct {
	Name string `json:"name" binding:"required"`
}

// FixResponse is the fixed name.
type FixResponse struct {
	Name    string `json:"name"`
	Matched bool   `json:"matched"`
}

func (s *Server) normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	nctx := naming.Context{ParentDir: req.Parent}
	if req.Modified != nil {
		nctx.ModTime = *req.Modified
	}
	d, err := naming.Normalize(req.Stem, nctx, s.opts)
	if err != nil {
		engineError(c, err)
		return
	}
	success(c, NormalizeResponse{
		Original:    d.Original,
		New:         d.New,
		Changed:     d.Changed,
		Date:        d.Date.String(),
		YearSource:  string(d.YearSource),
		MonthSource: string(d.MonthSource),
	})
}

func (s *Server) fix(c *gin.Context) {
	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	name, matched, err := naming.FixDate(req.Name)
	if err != nil {
		engineError(c, err)
		return
	}
	success(c, FixResponse{Name: name, Matched: matched})
}

func engineError(c *gin.Context, err error) {
	if errors.Is(err, naming.ErrMalformedFragment) {
		fail(c, http.StatusUnprocessableEntity, err)
		return
	}
	fail(c, http.StatusInternalServerError, err)
}
