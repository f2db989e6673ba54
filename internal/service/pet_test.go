package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"pawcare/internal/domain"
)

type fakeGalleryRepo struct {
	images map[int64]*domain.GalleryImage
	nextID int64
}

func newFakeGalleryRepo() *fakeGalleryRepo {
	return &fakeGalleryRepo{images: make(map[int64]*domain.GalleryImage), nextID: 1}
}

func (r *fakeGalleryRepo) Add(ctx context.Context, petID int64, url, caption string) (int64, error) {
	id := r.nextID
	r.nextID++
	r.images[id] = &domain.GalleryImage{ID: id, PetID: petID, URL: url, Caption: caption}
	return id, nil
}

func (r *fakeGalleryRepo) GetByID(ctx context.Context, id int64) (*domain.GalleryImage, error) {
	img, ok := r.images[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return img, nil
}

func (r *fakeGalleryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.images[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.images, id)
	return nil
}

func (r *fakeGalleryRepo) ListByPet(ctx context.Context, petID int64) ([]domain.GalleryImage, error) {
	var images []domain.GalleryImage
	for _, img := range r.images {
		if img.PetID == petID {
			images = append(images, *img)
		}
	}
	return images, nil
}

// newTestPetService собирает сервис без файлового хранилища,
// как при запуске сервера с пустым S3_ENDPOINT.
func newTestPetService(gallery *fakeGalleryRepo) *PetServiceImpl {
	pets := &fakePetRepo{pets: map[int64]*domain.Pet{
		testPetID: {ID: testPetID, OwnerID: testOwnerID, Name: "Барсик", PhotoURL: "https://bucket.s3.amazonaws.com/pets/old.jpg"},
	}}
	return NewPetService(pets, gallery, nil, zap.NewNop())
}

func TestPetService_UploadPhoto_WithoutStorage(t *testing.T) {
	svc := newTestPetService(newFakeGalleryRepo())

	err := svc.UploadPhoto(context.Background(), testPetID, testOwnerID, []byte("jpeg"), "photo.jpg")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestPetService_AddGalleryImage_WithoutStorage(t *testing.T) {
	svc := newTestPetService(newFakeGalleryRepo())

	if _, err := svc.AddGalleryImage(context.Background(), testPetID, testOwnerID, []byte("jpeg"), "photo.jpg", ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestPetService_Delete_WithoutStorage(t *testing.T) {
	svc := newTestPetService(newFakeGalleryRepo())

	if err := svc.Delete(context.Background(), testPetID, testOwnerID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestPetService_DeletePhoto_WithoutStorage(t *testing.T) {
	svc := newTestPetService(newFakeGalleryRepo())

	if err := svc.DeletePhoto(context.Background(), testPetID, testOwnerID); err != nil {
		t.Fatalf("DeletePhoto: %v", err)
	}
}

func TestPetService_DeleteGalleryImage_WithoutStorage(t *testing.T) {
	gallery := newFakeGalleryRepo()
	id, err := gallery.Add(context.Background(), testPetID, "https://bucket.s3.amazonaws.com/pets/g.jpg", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	svc := newTestPetService(gallery)

	if err := svc.DeleteGalleryImage(context.Background(), id, testOwnerID); err != nil {
		t.Fatalf("DeleteGalleryImage: %v", err)
	}
	if _, err := gallery.GetByID(context.Background(), id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("image must be removed, got %v", err)
	}
}
