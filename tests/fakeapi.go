// Package testutil provides an in-memory tracker backend for tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	secretKey = []byte("secret")

	jwtConfig = middleware.JWTConfig{
		SigningKey:    secretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}

	errUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "user not authenticated")
	errAuthenticationFailed = echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	errUsernameTaken        = echo.NewHTTPError(http.StatusConflict, "username already exists")
	errCourseNotFound       = echo.NewHTTPError(http.StatusNotFound, "course not found")
	errAssignmentNotFound   = echo.NewHTTPError(http.StatusNotFound, "assignment not found")
	errMissingFields        = echo.NewHTTPError(http.StatusBadRequest, "missing required fields")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
}

type (
	Course struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		owner     string
	}

	Assignment struct {
		ID          int64  `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		DueDate     string `json:"due_date"`
		Priority    int    `json:"priority"`
		CourseID    int64  `json:"course_id"`
		owner       string
	}

	// Request is one call received by the FakeAPI.
	Request struct {
		Method        string
		Path          string
		Authorization string
		RequestID     string
		Body          []byte
	}

	failure struct {
		status int
		msg    string
	}

	reply struct {
		body        string
		contentType string
	}
)

// FakeAPI serves the tracker REST contract from memory, scoped per user.
type FakeAPI struct {
	*httptest.Server
	app *echo.Echo

	// TokenTTL sets the lifetime of the tokens issued by /login.
	TokenTTL time.Duration

	mu          sync.Mutex
	pk          int64
	users       map[string][]byte // username -> bcrypt hash
	courses     map[int64]Course
	assignments map[int64]Assignment
	requests    []Request
	failures    map[string]failure
	replies     map[string]reply
}

// NewFakeAPI starts a FakeAPI, closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	api := &FakeAPI{
		app:         echo.New(),
		TokenTTL:    time.Hour,
		users:       make(map[string][]byte),
		courses:     make(map[int64]Course),
		assignments: make(map[int64]Assignment),
		failures:    make(map[string]failure),
		replies:     make(map[string]reply),
	}
	api.setup()
	api.Server = httptest.NewServer(api.app)
	t.Cleanup(api.Close)
	return api
}

func (api *FakeAPI) setup() {
	api.app.HideBanner = true
	api.app.Logger.SetLevel(log.OFF)
	api.app.HTTPErrorHandler = appHTTPErrorHandler

	api.app.Pre(middleware.RemoveTrailingSlash())
	api.app.Use(api.record, api.inject)

	api.app.POST("/register", api.register)
	api.app.POST("/login", api.login)

	jwtMW := middleware.JWTWithConfig(jwtConfig)
	api.app.GET("/courses", api.listCourses, jwtMW)
	api.app.POST("/addcourse", api.addCourse, jwtMW)
	api.app.PUT("/editcourse/:id", api.editCourse, jwtMW)
	api.app.DELETE("/deletecourse/:id", api.deleteCourse, jwtMW)
	api.app.GET("/assignments", api.listAssignments, jwtMW)
	api.app.POST("/addassignment", api.addAssignment, jwtMW)
	api.app.PUT("/editassignment/:id", api.editAssignment, jwtMW)
	api.app.DELETE("/deleteassignment/:id", api.deleteAssignment, jwtMW)
}

// Fail makes every later `method path` request answer status with msg.
func (api *FakeAPI) Fail(method, path string, status int, msg string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.failures[method+" "+path] = failure{status: status, msg: msg}
}

// Reply makes every later `method path` request run as usual but answer body
// in place of the handler's payload, keeping its status.
func (api *FakeAPI) Reply(method, path, body string) {
	ct := echo.MIMETextPlainCharsetUTF8
	if json.Valid([]byte(body)) {
		ct = echo.MIMEApplicationJSONCharsetUTF8
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	api.replies[method+" "+path] = reply{body: body, contentType: ct}
}

// Requests returns the calls received so far, in order.
func (api *FakeAPI) Requests() []Request {
	api.mu.Lock()
	defer api.mu.Unlock()
	out := make([]Request, len(api.requests))
	copy(out, api.requests)
	return out
}

// LastRequest returns the most recent call; ok is false when none was received.
func (api *FakeAPI) LastRequest() (req Request, ok bool) {
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.requests) == 0 {
		return Request{}, false
	}
	return api.requests[len(api.requests)-1], true
}

func (api *FakeAPI) ResetRequests() {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.requests = nil
}

// AddUser registers a user directly.
func (api *FakeAPI) AddUser(t *testing.T, uname, pwd string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("AddUser() failed: %v", err)
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	api.users[uname] = hash
}

// Token issues a valid token for uname, expiring after ttl (TokenTTL when omitted).
func (api *FakeAPI) Token(t *testing.T, uname string, ttl ...time.Duration) string {
	t.Helper()
	delta := api.TokenTTL
	if len(ttl) > 0 {
		delta = ttl[0]
	}
	token, err := generateToken(uname, delta)
	if err != nil {
		t.Fatalf("Token() failed: %v", err)
	}
	return token
}

// SeedCourse stores a course owned by uname and returns it with its id.
func (api *FakeAPI) SeedCourse(uname, name, start, end string) Course {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.pk++
	crs := Course{ID: api.pk, Name: name, StartDate: start, EndDate: end, owner: uname}
	api.courses[crs.ID] = crs
	return crs
}

// SeedAssignment stores an assignment owned by uname and returns it with its id.
func (api *FakeAPI) SeedAssignment(uname string, a Assignment) Assignment {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.pk++
	a.ID = api.pk
	a.owner = uname
	api.assignments[a.ID] = a
	return a
}

func (api *FakeAPI) CourseCount() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return len(api.courses)
}

func (api *FakeAPI) AssignmentCount() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return len(api.assignments)
}

// middleware

func (api *FakeAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		api.mu.Lock()
		api.requests = append(api.requests, Request{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			RequestID:     req.Header.Get(echo.HeaderXRequestID),
			Body:          body,
		})
		api.mu.Unlock()
		return next(ctx)
	}
}

func (api *FakeAPI) inject(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		req := ctx.Request()
		api.mu.Lock()
		f, ok := api.failures[req.Method+" "+req.URL.Path]
		api.mu.Unlock()
		if ok {
			return echo.NewHTTPError(f.status, f.msg)
		}

		api.mu.Lock()
		r, ok := api.replies[req.Method+" "+req.URL.Path]
		api.mu.Unlock()
		if !ok {
			return next(ctx)
		}
		w := ctx.Response().Writer
		rec := httptest.NewRecorder()
		ctx.Response().Writer = rec
		err := next(ctx)
		ctx.Response().Writer = w
		if err != nil {
			return err
		}
		w.Header().Set(echo.HeaderContentType, r.contentType)
		w.WriteHeader(rec.Code)
		_, err = io.WriteString(w, r.body)
		return err
	}
}

// auth handlers

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (api *FakeAPI) register(ctx echo.Context) error {
	var creds credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding credentials")
	}
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return errMissingFields
	}

	api.mu.Lock()
	_, taken := api.users[creds.Username]
	api.mu.Unlock()
	if taken {
		return errUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	api.mu.Lock()
	api.users[creds.Username] = hash
	api.mu.Unlock()
	return ctx.JSON(http.StatusCreated, echo.Map{"username": creds.Username})
}

func (api *FakeAPI) login(ctx echo.Context) error {
	var creds credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding credentials")
	}

	api.mu.Lock()
	hash, ok := api.users[strings.TrimSpace(creds.Username)]
	ttl := api.TokenTTL
	api.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		return errAuthenticationFailed
	}

	token, err := generateToken(creds.Username, ttl)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"access_token": token, "username": creds.Username})
}

func generateToken(uname string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   uname,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: uname,
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(jwtConfig.SigningMethod), claims)
	ss, err := token.SignedString(jwtConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func contextUsername(ctx echo.Context) (string, error) {
	if token, ok := ctx.Get(jwtConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok && claims.Subject != "" {
			return claims.Subject, nil
		}
	}
	return "", errUnauthorized
}

func pathID(ctx echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	return id, err == nil
}

// course handlers

func (api *FakeAPI) listCourses(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	api.mu.Lock()
	courses := make([]Course, 0, len(api.courses))
	for _, crs := range api.courses {
		if crs.owner == uname {
			courses = append(courses, crs)
		}
	}
	api.mu.Unlock()
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return ctx.JSON(http.StatusOK, courses)
}

func (api *FakeAPI) addCourse(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	var crs Course
	if err = ctx.Bind(&crs); err != nil {
		return errors.Wrap(err, "binding course")
	}
	if crs.Name == "" || crs.StartDate == "" || crs.EndDate == "" {
		return errMissingFields
	}
	return ctx.JSON(http.StatusCreated, api.SeedCourse(uname, crs.Name, crs.StartDate, crs.EndDate))
}

func (api *FakeAPI) editCourse(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	id, ok := pathID(ctx)
	if !ok {
		return errCourseNotFound
	}
	var in Course
	if err = ctx.Bind(&in); err != nil {
		return errors.Wrap(err, "binding course")
	}
	if in.Name == "" || in.StartDate == "" || in.EndDate == "" {
		return errMissingFields
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	crs, found := api.courses[id]
	if !found || crs.owner != uname {
		return errCourseNotFound
	}
	crs.Name, crs.StartDate, crs.EndDate = in.Name, in.StartDate, in.EndDate
	api.courses[id] = crs
	return ctx.JSON(http.StatusOK, crs)
}

func (api *FakeAPI) deleteCourse(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	id, ok := pathID(ctx)
	if !ok {
		return errCourseNotFound
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	crs, found := api.courses[id]
	if !found || crs.owner != uname {
		return errCourseNotFound
	}
	delete(api.courses, id)
	for aid, a := range api.assignments {
		if a.CourseID == id {
			delete(api.assignments, aid)
		}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "course deleted"})
}

// assignment handlers

func (api *FakeAPI) listAssignments(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	api.mu.Lock()
	assignments := make([]Assignment, 0, len(api.assignments))
	for _, a := range api.assignments {
		if a.owner == uname {
			assignments = append(assignments, a)
		}
	}
	api.mu.Unlock()
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *FakeAPI) bindAssignment(ctx echo.Context, uname string) (Assignment, error) {
	var a Assignment
	if err := ctx.Bind(&a); err != nil {
		return Assignment{}, errors.Wrap(err, "binding assignment")
	}
	if a.Title == "" || a.DueDate == "" || a.CourseID == 0 {
		return Assignment{}, errMissingFields
	}
	api.mu.Lock()
	crs, found := api.courses[a.CourseID]
	api.mu.Unlock()
	if !found || crs.owner != uname {
		return Assignment{}, errCourseNotFound
	}
	return a, nil
}

func (api *FakeAPI) addAssignment(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	a, err := api.bindAssignment(ctx, uname)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, api.SeedAssignment(uname, a))
}

func (api *FakeAPI) editAssignment(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	id, ok := pathID(ctx)
	if !ok {
		return errAssignmentNotFound
	}
	in, err := api.bindAssignment(ctx, uname)
	if err != nil {
		return err
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	a, found := api.assignments[id]
	if !found || a.owner != uname {
		return errAssignmentNotFound
	}
	in.ID, in.owner = id, uname
	api.assignments[id] = in
	return ctx.JSON(http.StatusOK, in)
}

func (api *FakeAPI) deleteAssignment(ctx echo.Context) error {
	uname, err := contextUsername(ctx)
	if err != nil {
		return err
	}
	id, ok := pathID(ctx)
	if !ok {
		return errAssignmentNotFound
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	a, found := api.assignments[id]
	if !found || a.owner != uname {
		return errAssignmentNotFound
	}
	delete(api.assignments, id)
	return ctx.JSON(http.StatusOK, echo.Map{"message": "assignment deleted"})
}
