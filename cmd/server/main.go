package main

import "bijou/internal/app"

// @title           Bijou API
// @version         1.0
// @description     Интернет-магазин: каталог, корзина, заказы с оплатой Toss, отзывы и обращения.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
