package handlers

import (
	"strconv"
	"strings"

	"skytone/internal/app"
	"skytone/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

type WeatherHandler struct {
	Handler
	weatherService *services.WeatherService
}

func NewWeatherHandler(app app.App, router fiber.Router) *WeatherHandler {
	log := logger.New("handlers").File("weather_handler")
	return &WeatherHandler{
		weatherService: app.Services.Weather,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *WeatherHandler) Register() {
	h.router.Get("/weather", h.getWeather)
}

// getWeather resolves current conditions either by coordinates
// (?lat=&lon=) or by city name (?city=). City lookup wins when both are
// supplied.
func (h *WeatherHandler) getWeather(c *fiber.Ctx) error {
	city := strings.TrimSpace(c.Query("city"))
	if city != "" {
		weather, err := h.weatherService.GetByCity(c.UserContext(), city)
		if err != nil {
			return errorResponse(c, err, "Failed to resolve weather")
		}
		return dataResponse(c, fiber.StatusOK, weather)
	}

	latParam := c.Query("lat")
	lonParam := c.Query("lon")
	if latParam == "" || lonParam == "" {
		return badRequest(c, "Either city or lat and lon query parameters are required")
	}

	lat, err := strconv.ParseFloat(latParam, 64)
	if err != nil || lat < -90 || lat > 90 {
		return badRequest(c, "Invalid latitude")
	}

	lon, err := strconv.ParseFloat(lonParam, 64)
	if err != nil || lon < -180 || lon > 180 {
		return badRequest(c, "Invalid longitude")
	}

	weather, err := h.weatherService.GetByCoordinates(c.UserContext(), lat, lon)
	if err != nil {
		return errorResponse(c, err, "Failed to resolve weather")
	}

	return dataResponse(c, fiber.StatusOK, weather)
}
