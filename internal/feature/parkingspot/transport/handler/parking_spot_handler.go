// Package handler はparkingspotフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"parking_control/internal/api"
	"parking_control/internal/feature/parkingspot/domain/entity"
	"parking_control/internal/feature/parkingspot/transport/http/dto"
	"parking_control/internal/feature/parkingspot/usecase"
)

// レスポンスメッセージ。競合メッセージは違反した一意制約を示します。
const (
	MsgLicensePlateInUse   = "Conflict: License Plate Car is already in use!"
	MsgParkingSpotInUse    = "Conflict: Parking Spot is already in use!"
	MsgApartmentBlockInUse = "Conflict: Parking Spot is already registered for this apartment/block!"
	MsgConflict            = "Conflict: Parking Spot conflicts with an existing record!"
	MsgNotFound            = "Parking Spot not found."
	MsgNotFoundNoPeriod    = "Parking Spot not found"
	MsgDeleted             = "Parking Spot deleted successfully."
	msgInvalidRequest      = "invalid request"
	msgInternalServerError = "internal server error"
)

// ParkingSpotUsecase はハンドラーが委譲する駐車スペースのユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type ParkingSpotUsecase interface {
	ExistsByLicensePlateCar(ctx context.Context, plate string) (bool, error)
	ExistsByParkingSpotNumber(ctx context.Context, number string) (bool, error)
	ExistsByApartmentAndBlock(ctx context.Context, apartment, block string) (bool, error)
	Save(ctx context.Context, spot *entity.ParkingSpot) (*entity.ParkingSpot, error)
	FindByID(ctx context.Context, id uint) (*entity.ParkingSpot, error)
	FindAll(ctx context.Context, req entity.PageRequest) (*entity.Page, error)
	Delete(ctx context.Context, spot *entity.ParkingSpot) error
}

// ParkingSpotHandler は /parking-spot のHTTPリクエストを処理します。
// ロールの確認はこれらのメソッドより前にミドルウェアで行われます。
type ParkingSpotHandler struct {
	uc  ParkingSpotUsecase
	now func() time.Time
}

// NewParkingSpotHandler は指定されたusecaseでParkingSpotHandlerの新しいインスタンスを生成します。
func NewParkingSpotHandler(uc ParkingSpotUsecase) *ParkingSpotHandler {
	dto.RegisterValidations()
	return &ParkingSpotHandler{uc: uc, now: time.Now}
}

// Create は駐車スペースを新規登録します。
// - リクエストボディが不正な場合は400
// - ナンバープレート、駐車番号、部屋/ブロックの順に確認し、使用済みなら409
// - 成功時は201と保存したレコード
func (h *ParkingSpotHandler) Create(c *gin.Context) {
	var req dto.ParkingSpotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("parking spot validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	ctx := c.Request.Context()

	conflict, err := h.firstConflict(ctx, req)
	if err != nil {
		slog.Error("parking spot conflict check failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	if conflict != "" {
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: conflict})
		return
	}

	spot := req.ToEntity()
	// timestamptz keeps microseconds
	spot.RegistrationDate = h.now().UTC().Truncate(time.Microsecond)

	saved, err := h.uc.Save(ctx, &spot)
	if err != nil {
		if errors.Is(err, usecase.ErrParkingSpotConflict) {
			// another request won the race between the checks and the insert
			slog.Warn("parking spot insert rejected by unique constraint", "error", err)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: MsgConflict})
			return
		}
		slog.Error("failed to save parking spot", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	slog.Info("parking spot created", "id", saved.ID, "parking_spot_number", saved.ParkingSpotNumber)
	c.JSON(http.StatusCreated, dto.NewParkingSpotRes(*saved))
}

// firstConflict は最初に違反した一意性ルールのメッセージを返します。違反がなければ""です。
func (h *ParkingSpotHandler) firstConflict(ctx context.Context, req dto.ParkingSpotReq) (string, error) {
	checks := []struct {
		exists func() (bool, error)
		msg    string
	}{
		{func() (bool, error) { return h.uc.ExistsByLicensePlateCar(ctx, req.LicensePlateCar) }, MsgLicensePlateInUse},
		{func() (bool, error) { return h.uc.ExistsByParkingSpotNumber(ctx, req.ParkingSpotNumber) }, MsgParkingSpotInUse},
		{func() (bool, error) { return h.uc.ExistsByApartmentAndBlock(ctx, req.Apartment, req.Block) }, MsgApartmentBlockInUse},
	}
	for _, check := range checks {
		exists, err := check.exists()
		if err != nil {
			return "", err
		}
		if exists {
			return check.msg, nil
		}
	}
	return "", nil
}

// List は駐車スペースを1ページ分返します。
//
// エンドポイント例:
// GET /parking-spot?page=0&size=10&sort=id&direction=asc
func (h *ParkingSpotHandler) List(c *gin.Context) {
	req, err := bindPageRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	page, err := h.uc.FindAll(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidSortField) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		slog.Error("failed to list parking spots", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	c.JSON(http.StatusOK, dto.NewPageRes(*page))
}

// bindPageRequest reads page, size, sort and direction from the query, keeping the defaults for missing ones.
func bindPageRequest(c *gin.Context) (entity.PageRequest, error) {
	req := entity.DefaultPageRequest()
	query := c.Request.URL.Query()
	direction := string(req.Direction)

	if err := runtime.BindQueryParameter("form", true, false, "page", query, &req.Page); err != nil {
		return req, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &req.Size); err != nil {
		return req, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "sort", query, &req.Sort); err != nil {
		return req, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "direction", query, &direction); err != nil {
		return req, err
	}

	if req.Page < 0 {
		return req, errors.New("page must not be negative")
	}
	if req.Size < 1 {
		return req, errors.New("size must be at least 1")
	}
	switch entity.SortDirection(strings.ToLower(direction)) {
	case entity.SortAsc:
		req.Direction = entity.SortAsc
	case entity.SortDesc:
		req.Direction = entity.SortDesc
	default:
		return req, errors.New("direction must be asc or desc")
	}
	return req, nil
}

// Get はIDで指定された駐車スペースを返します。
func (h *ParkingSpotHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	spot, err := h.uc.FindByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("failed to find parking spot", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	if spot == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: MsgNotFound})
		return
	}
	c.JSON(http.StatusOK, dto.NewParkingSpotRes(*spot))
}

// Delete は駐車スペースを削除します。
func (h *ParkingSpotHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	spot, err := h.uc.FindByID(ctx, id)
	if err != nil {
		slog.Error("failed to find parking spot", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	if spot == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: MsgNotFoundNoPeriod})
		return
	}
	if err := h.uc.Delete(ctx, spot); err != nil {
		slog.Error("failed to delete parking spot", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternalServerError})
		return
	}
	slog.Info("parking spot deleted", "id", id)
	c.JSON(http.StatusOK, api.MessageResponse{Message: MsgDeleted})
}

// Update はIDと登録日時を除くすべての項目を置き換えます。
// 想定外のエラーはレコードが存在しない場合と同じく404を返し、原因はログに出力します。
// 一意制約違反の場合は409を返します。
func (h *ParkingSpotHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ParkingSpotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("parking spot validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}
	ctx := c.Request.Context()

	existing, err := h.uc.FindByID(ctx, id)
	if err != nil {
		slog.Error("parking spot update failed", "id", id, "stage", "find", "error", err)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: MsgNotFoundNoPeriod})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: MsgNotFoundNoPeriod})
		return
	}

	merged := entity.ApplyUpdate(*existing, req.ToEntity())
	saved, err := h.uc.Save(ctx, &merged)
	if err != nil {
		if errors.Is(err, usecase.ErrParkingSpotConflict) {
			slog.Warn("parking spot update rejected by unique constraint", "id", id, "error", err)
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: MsgConflict})
			return
		}
		slog.Error("parking spot update failed", "id", id, "stage", "save", "error", err)
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: MsgNotFoundNoPeriod})
		return
	}
	slog.Info("parking spot updated", "id", saved.ID)
	c.JSON(http.StatusOK, dto.NewParkingSpotRes(*saved))
}

// parseID reads the :id path parameter and writes a 400 response when it is not a positive integer.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgInvalidRequest})
		return 0, false
	}
	return uint(id), true
}
