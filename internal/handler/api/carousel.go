package api

import (
	"net/http"
	"strconv"

	"github.com/dukerupert/vitrine/internal/carousel"
	"github.com/dukerupert/vitrine/internal/handler"
	"github.com/dukerupert/vitrine/internal/storefront"
)

// CarouselHandler moves the home-page carousels.
type CarouselHandler struct {
	sessions Sessions
}

func NewCarouselHandler(sessions Sessions) *CarouselHandler {
	return &CarouselHandler{sessions: sessions}
}

// Next handles POST /api/carousels/{block}/next
func (h *CarouselHandler) Next(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.CarouselNext{Block: r.PathValue("block"), Measure: measureFromQuery(r)})
}

// Prev handles POST /api/carousels/{block}/prev
func (h *CarouselHandler) Prev(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, storefront.CarouselPrev{Block: r.PathValue("block"), Measure: measureFromQuery(r)})
}

func (h *CarouselHandler) run(w http.ResponseWriter, r *http.Request, cmd storefront.Command) {
	v, ok := dispatch(w, r, h.sessions, cmd)
	if !ok {
		return
	}
	handler.WriteJSON(w, http.StatusOK, v.Carousel)
}

// measureFromQuery reads the rendered card width and gap the client
// reports. Without both the offset is zero.
func measureFromQuery(r *http.Request) carousel.Measure {
	q := r.URL.Query()
	width, err := strconv.ParseFloat(q.Get("cardWidth"), 64)
	if err != nil || width < 0 {
		return nil
	}
	gap, err := strconv.ParseFloat(q.Get("gap"), 64)
	if err != nil || gap < 0 {
		return nil
	}
	return carousel.FixedMeasure(width, gap)
}
