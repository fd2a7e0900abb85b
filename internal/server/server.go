package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"henalis/app"
	"henalis/app/blog"
	"henalis/app/catalog"
	"henalis/app/contact"
	"henalis/app/item"
	"henalis/app/subscriber"
	"henalis/app/wishlist"
	"henalis/domain"
	"henalis/internal/middleware"
	"henalis/pkg/events"
)

// Store is everything the HTTP API needs from persistence.
type Store interface {
	item.Repository
	catalog.Repository
	wishlist.Repository
	contact.Repository
	subscriber.Repository
	blog.Repository
	app.BulkRepository
	Ping(ctx context.Context) error
}

type Dependencies struct {
	Store    Store
	Storage  app.ObjectStorage
	Emitter  *events.Emitter
	Verifier middleware.TokenVerifier
	Paging   app.Paging
}

func NewApp(deps Dependencies) *fiber.App {
	srv := fiber.New(fiber.Config{
		IdleTimeout:  5 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		Concurrency:  256 * 1024,
		BodyLimit:    6 * 1024 * 1024,
	})
	srv.Use(recover.New())

	srv.Get("/health", healthHandler(deps.Store))

	registerRoutes(srv.Group("/api"), deps)

	return srv
}

func healthHandler(store Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

func registerRoutes(api fiber.Router, deps Dependencies) {
	store := deps.Store
	user := middleware.RequireUser(deps.Verifier)
	admin := middleware.RequireAdmin()
	cleaner := item.NewStorageCleaner(deps.Storage, deps.Emitter)

	// Items
	api.Get("/items", handle[item.GetItemsRequest, item.GetItemsResponse](item.NewGetItemsHandler(store, deps.Paging)))
	api.Get("/items/:id", handle[item.GetItemRequest, item.GetItemResponse](item.NewGetItemHandler(store)))
	api.Post("/items/:id/like", handle[item.LikeItemRequest, item.LikeItemResponse](item.NewLikeItemHandler(store, deps.Emitter)))
	api.Get("/items/:id/images", handle[item.GetItemImagesRequest, item.GetItemImagesResponse](item.NewGetItemImagesHandler(store)))

	api.Post("/items", user, admin, handle[item.CreateItemRequest, item.CreateItemResponse](item.NewCreateItemHandler(store, deps.Emitter)))
	api.Patch("/items", user, admin, handle[app.BulkUpdateRequest[domain.ItemPatch], app.BulkUpdateResponse](
		app.NewBulkUpdateHandler[domain.ItemPatch](store, domain.EntityItem)))
	api.Delete("/items", user, admin, handle[app.BulkDeleteRequest, app.BulkDeleteResponse](item.NewBulkDeleteItemsHandler(store, cleaner)))
	api.Patch("/items/:id", user, admin, handle[item.UpdateItemRequest, item.UpdateItemResponse](item.NewUpdateItemHandler(store, deps.Emitter)))
	api.Delete("/items/:id", user, admin, handle[item.DeleteItemRequest, item.DeleteItemResponse](item.NewDeleteItemHandler(store, cleaner)))
	api.Post("/items/:id/tags", user, admin, handle[item.AssignTagsRequest, item.AssignTagsResponse](item.NewAssignTagsHandler(store)))
	api.Delete("/items/:id/tags/:tagId", user, admin, handle[item.RemoveTagRequest, item.RemoveTagResponse](item.NewRemoveTagHandler(store)))
	api.Post("/items/:id/images", user, admin, handle[item.UploadItemImageRequest, item.UploadItemImageResponse](
		item.NewUploadItemImageHandler(store, deps.Storage, deps.Emitter)))
	api.Put("/items/:id/images/:imageId/primary", user, admin, handle[item.ItemImageRequest, item.SetPrimaryImageResponse](
		item.NewSetPrimaryImageHandler(store)))
	api.Delete("/items/:id/images/:imageId", user, admin, handle[item.ItemImageRequest, item.DeleteItemImageResponse](
		item.NewDeleteItemImageHandler(store, deps.Storage, deps.Emitter)))

	// Categories
	api.Get("/categories", handle[catalog.ListRequest, catalog.GetCategoriesResponse](catalog.NewGetCategoriesHandler(store)))
	api.Get("/categories/:id", handle[catalog.ByIDRequest, catalog.CategoryResponse](catalog.NewGetCategoryHandler(store)))
	api.Post("/categories", user, admin, handle[catalog.CreateCategoryRequest, catalog.CreateCategoryResponse](catalog.NewCreateCategoryHandler(store)))
	api.Patch("/categories", user, admin, handle[app.BulkUpdateRequest[domain.CategoryPatch], app.BulkUpdateResponse](
		app.NewBulkUpdateHandler[domain.CategoryPatch](store, domain.EntityCategory)))
	api.Delete("/categories", user, admin, handle[app.BulkDeleteRequest, app.BulkDeleteResponse](app.NewBulkDeleteHandler(store, domain.EntityCategory)))
	api.Patch("/categories/:id", user, admin, handle[catalog.UpdateCategoryRequest, catalog.CategoryResponse](catalog.NewUpdateCategoryHandler(store)))
	api.Delete("/categories/:id", user, admin, handle[catalog.ByIDRequest, catalog.Empty](catalog.NewDeleteCategoryHandler(store)))

	// Materials
	api.Get("/materials", handle[catalog.ListRequest, catalog.GetMaterialsResponse](catalog.NewGetMaterialsHandler(store)))
	api.Get("/materials/:id", handle[catalog.ByIDRequest, catalog.MaterialResponse](catalog.NewGetMaterialHandler(store)))
	api.Post("/materials", user, admin, handle[catalog.CreateMaterialRequest, catalog.CreateMaterialResponse](catalog.NewCreateMaterialHandler(store)))
	api.Patch("/materials", user, admin, handle[app.BulkUpdateRequest[domain.MaterialPatch], app.BulkUpdateResponse](
		app.NewBulkUpdateHandler[domain.MaterialPatch](store, domain.EntityMaterial)))
	api.Delete("/materials", user, admin, handle[app.BulkDeleteRequest, app.BulkDeleteResponse](app.NewBulkDeleteHandler(store, domain.EntityMaterial)))
	api.Patch("/materials/:id", user, admin, handle[catalog.UpdateMaterialRequest, catalog.MaterialResponse](catalog.NewUpdateMaterialHandler(store)))
	api.Delete("/materials/:id", user, admin, handle[catalog.ByIDRequest, catalog.Empty](catalog.NewDeleteMaterialHandler(store)))

	// Tags
	api.Get("/tags", handle[catalog.ListRequest, catalog.GetTagsResponse](catalog.NewGetTagsHandler(store)))
	api.Get("/tags/:id", handle[catalog.ByIDRequest, catalog.TagResponse](catalog.NewGetTagHandler(store)))
	api.Post("/tags", user, admin, handle[catalog.CreateTagRequest, catalog.CreateTagResponse](catalog.NewCreateTagHandler(store)))
	api.Patch("/tags", user, admin, handle[app.BulkUpdateRequest[domain.TagPatch], app.BulkUpdateResponse](
		app.NewBulkUpdateHandler[domain.TagPatch](store, domain.EntityTag)))
	api.Delete("/tags", user, admin, handle[app.BulkDeleteRequest, app.BulkDeleteResponse](app.NewBulkDeleteHandler(store, domain.EntityTag)))
	api.Patch("/tags/:id", user, admin, handle[catalog.UpdateTagRequest, catalog.TagResponse](catalog.NewUpdateTagHandler(store)))
	api.Delete("/tags/:id", user, admin, handle[catalog.ByIDRequest, catalog.Empty](catalog.NewDeleteTagHandler(store)))

	// Wishlist
	api.Get("/wishlist", user, handle[wishlist.GetWishlistRequest, wishlist.GetWishlistResponse](wishlist.NewGetWishlistHandler(store)))
	api.Delete("/wishlist", user, handle[wishlist.GetWishlistRequest, wishlist.ClearWishlistResponse](wishlist.NewClearWishlistHandler(store)))
	api.Post("/wishlist/:itemId", user, handle[wishlist.ItemRequest, wishlist.AddToWishlistResponse](wishlist.NewAddToWishlistHandler(store)))
	api.Delete("/wishlist/:itemId", user, handle[wishlist.ItemRequest, wishlist.RemoveFromWishlistResponse](wishlist.NewRemoveFromWishlistHandler(store)))

	// Contact
	api.Post("/contact", handle[contact.CreateMessageRequest, contact.CreateMessageResponse](contact.NewCreateMessageHandler(store, deps.Emitter)))
	api.Get("/contact", user, admin, handle[contact.GetMessagesRequest, contact.GetMessagesResponse](contact.NewGetMessagesHandler(store, deps.Paging)))
	api.Delete("/contact", user, admin, handle[contact.DeleteAllRequest, contact.DeleteResponse](contact.NewDeleteAllMessagesHandler(store)))
	api.Get("/contact/:id", user, admin, handle[contact.MessageRequest, contact.MessageResponse](contact.NewGetMessageHandler(store)))
	api.Put("/contact/:id", user, admin, handle[contact.UpdateMessageRequest, contact.MessageResponse](contact.NewUpdateMessageHandler(store)))
	api.Delete("/contact/:id", user, admin, handle[contact.MessageRequest, contact.DeleteResponse](contact.NewDeleteMessageHandler(store)))

	// Subscribers
	api.Post("/subscribers", handle[subscriber.SubscribeRequest, subscriber.SubscribeResponse](subscriber.NewSubscribeHandler(store, deps.Emitter)))
	api.Get("/subscribers", user, admin, handle[subscriber.GetSubscribersRequest, subscriber.GetSubscribersResponse](
		subscriber.NewGetSubscribersHandler(store, deps.Paging)))
	api.Delete("/subscribers", user, admin, handle[app.BulkDeleteRequest, app.BulkDeleteResponse](app.NewBulkDeleteHandler(store, domain.EntitySubscriber)))
	api.Patch("/subscribers/:id", user, admin, handle[subscriber.UpdateSubscriberRequest, subscriber.SubscriberResponse](
		subscriber.NewUpdateSubscriberHandler(store)))
	api.Delete("/subscribers/:id", user, admin, handle[subscriber.DeleteSubscriberRequest, subscriber.DeleteSubscriberResponse](
		subscriber.NewDeleteSubscriberHandler(store)))

	// Blog
	api.Get("/blog/posts", handle[blog.GetPostsRequest, blog.GetPostsResponse](blog.NewGetPostsHandler(store)))
	api.Get("/blog/posts/:id", handle[blog.PostRequest, blog.PostResponse](blog.NewGetPostHandler(store)))
	api.Post("/blog/posts", user, admin, handle[blog.CreatePostRequest, blog.CreatePostResponse](blog.NewCreatePostHandler(store)))
	api.Patch("/blog/posts/:id", user, admin, handle[blog.UpdatePostRequest, blog.PostResponse](blog.NewUpdatePostHandler(store)))
	api.Delete("/blog/posts/:id", user, admin, handle[blog.PostRequest, blog.DeleteResponse](blog.NewDeletePostHandler(store)))
	api.Get("/blog/tags", handle[blog.GetTagsRequest, blog.GetTagsResponse](blog.NewGetTagsHandler(store)))
	api.Post("/blog/tags", user, admin, handle[blog.CreateTagRequest, blog.CreateTagResponse](blog.NewCreateTagHandler(store)))
	api.Patch("/blog/tags/:id", user, admin, handle[blog.UpdateTagRequest, blog.TagResponse](blog.NewUpdateTagHandler(store)))
	api.Delete("/blog/tags/:id", user, admin, handle[blog.TagRequest, blog.DeleteResponse](blog.NewDeleteTagHandler(store)))
	api.Post("/blog/upload-image", user, admin, handle[blog.UploadCoverRequest, blog.UploadCoverResponse](blog.NewUploadCoverHandler(deps.Storage)))
}
