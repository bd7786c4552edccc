package catalog

import "github.com/rogerio-castellano/storefront/internal/models"

// SeedProducts is the launch catalog loaded into an empty store.
var SeedProducts = []models.Product{
	{Title: "Galaxy S24 Ultra", Category: "Phones", OriginalPrice: 1299.99, DiscountPercentage: 18, Rating: 4.8, ReviewCount: 2341, Image: "products/galaxy-s24-ultra.png", InStock: true},
	{Title: "iPhone 15 Pro", Category: "Phones", OriginalPrice: 999.00, DiscountPercentage: 10, Rating: 4.7, ReviewCount: 5120, Image: "products/iphone-15-pro.png", InStock: true},
	{Title: "Pixel 8", Category: "Phones", OriginalPrice: 699.00, DiscountPercentage: 0, Rating: 4.5, ReviewCount: 1187, Image: "products/pixel-8.png", InStock: false},
	{Title: "Noise Cancelling Headphones", Category: "Audio", OriginalPrice: 349.99, DiscountPercentage: 15, Rating: 4.6, ReviewCount: 3890, Image: "products/anc-headphones.png", InStock: true},
	{Title: "Wireless Earbuds", Category: "Audio", OriginalPrice: 129.99, DiscountPercentage: 25, Rating: 4.3, ReviewCount: 978, Image: "products/earbuds.png", InStock: true},
	{Title: "Smart Watch Series 9", Category: "Wearables", OriginalPrice: 399.00, DiscountPercentage: 12, Rating: 4.6, ReviewCount: 2204, Image: "products/smart-watch.png", InStock: true},
	{Title: "Fitness Band", Category: "Wearables", OriginalPrice: 49.99, DiscountPercentage: 0, Rating: 4.1, ReviewCount: 640, Image: "products/fitness-band.png", InStock: true},
	{Title: "13\" Ultrabook", Category: "Laptops", OriginalPrice: 1499.00, DiscountPercentage: 20, Rating: 4.7, ReviewCount: 812, Image: "products/ultrabook.png", InStock: true},
	{Title: "Mechanical Keyboard", Category: "Accessories", OriginalPrice: 89.99, DiscountPercentage: 30, Rating: 4.4, ReviewCount: 1530, Image: "products/keyboard.png", InStock: true},
	{Title: "USB-C Charger 65W", Category: "Accessories", OriginalPrice: 39.99, DiscountPercentage: 5, Rating: 4.5, ReviewCount: 2875, Image: "products/charger.png", InStock: false},
}
