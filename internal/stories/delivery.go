package stories

import "github.com/labstack/echo/v4"

type Handler interface {
	Create() echo.HandlerFunc
	GetByID() echo.HandlerFunc
	List() echo.HandlerFunc
	Update() echo.HandlerFunc
	Delete() echo.HandlerFunc
	FindNearby() echo.HandlerFunc
	GetQRCode() echo.HandlerFunc
	GetPrintableQR() echo.HandlerFunc
}
