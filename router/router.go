package router

import (
	"io/ioutil"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"

	"rangequery/cycle"
	"rangequery/source"
	"rangequery/trees/prefix"
)

var log = logging.MustGetLogger("router")

// Server answers queries over the dataset loaded at startup and resolves
// ad-hoc batches posted by clients.
type Server struct {
	table  *prefix.Table
	engine *cycle.Engine
}

func NewServer(table *prefix.Table, engine *cycle.Engine) *Server {
	if table == nil {
		table = prefix.Build(nil)
	}
	return &Server{table: table, engine: engine}
}

func (s *Server) Register(r *gin.Engine) {
	r.GET("/prefix", s.Prefix)
	r.GET("/describe", s.Describe)
	r.POST("/resolve", s.Resolve)
}

func intParam(ginC *gin.Context, name string) (int, error) {
	raw, ok := ginC.GetQuery(name)
	if !ok {
		return 0, &BadRequestError{Status: INVALID_PARAMETERS, Message: "missing parameter " + name}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &BadRequestError{Status: INVALID_PARAMETERS, Message: "parameter " + name + " is not an integer"}
	}
	return v, nil
}

// GET /prefix?type=1&lRange=1&rRange=3
func (s *Server) Prefix(ginC *gin.Context) {
	l, err := intParam(ginC, "lRange")
	if err != nil {
		JsonResponse(ginC, nil, err)
		return
	}
	r, err := intParam(ginC, "rRange")
	if err != nil {
		JsonResponse(ginC, nil, err)
		return
	}

	q := prefix.NewQuery(prefix.ParseKind(ginC.DefaultQuery("type", prefix.SumRange.Tag())), l, r)
	answer, err := s.table.Answer(q)
	if err == nil {
		err = cycle.CheckFinite([]prefix.Query{q}, []float64{answer})
	}
	if err != nil {
		JsonResponse(ginC, nil, err)
		return
	}

	result := make(map[string]interface{})
	result["Query"] = q.String()
	result["Result"] = answer
	JsonResponse(ginC, result, nil)
}

func (s *Server) Describe(ginC *gin.Context) {
	JsonResponse(ginC, s.table.Describe(), nil)
}

// POST /resolve with the input API payload; the token is ignored
func (s *Server) Resolve(ginC *gin.Context) {
	body, err := ioutil.ReadAll(ginC.Request.Body)
	if err != nil {
		JsonResponse(ginC, nil, err)
		return
	}

	payload, err := source.Decode(body)
	if err != nil {
		JsonResponse(ginC, nil, &BadRequestError{Status: INVALID_POST_DATA, Message: err.Error()})
		return
	}
	in, err := payload.Input()
	if err != nil {
		JsonResponse(ginC, nil, &BadRequestError{Status: INVALID_POST_DATA, Message: err.Error()})
		return
	}

	report, err := s.engine.Resolve(ginC.Request.Context(), in.Sequence, in.Queries)
	if err != nil {
		log.Warningf("resolve from %s: %v", ginC.ClientIP(), err)
		JsonResponse(ginC, nil, err)
		return
	}

	result := make(map[string]interface{})
	result["id"] = report.ID
	result["results"] = report.Answers
	result["cache_hit"] = report.CacheHit
	JsonResponse(ginC, result, nil)
}
