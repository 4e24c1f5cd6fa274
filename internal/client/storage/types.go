package storage

import "github.com/atinyakov/shipdash/internal/models"

// Keys used by the dashboard in the local store.
const (
	KeyAuthToken           = "authToken"
	KeyCurrentUser         = "currentUser"
	KeySyncDone            = "syncDone"
	KeyEntries             = "entries"
	KeyUSPSOrders          = models.CollectionUSPSOrders
	KeyMaterials           = "materials"
	KeyMaterialsBOM        = models.CollectionMaterialsBOM
	KeyFinishedGoods       = models.CollectionFinishedGoods
	KeyCustomFinishedGoods = "customFinishedGoods"
	KeyObservations        = models.CollectionObservations
	KeyCustomObservations  = "customObservations"
	KeyUsers               = models.CollectionUsers
	KeyDailyReport         = models.CollectionDailyReport
	KeyPartNumbers         = models.CollectionPartNumbers
)

// PushKeys is the allow-list of collections uploaded after local mutations.
var PushKeys = []string{
	KeyUsers,
	KeyMaterialsBOM,
	KeyObservations,
	KeyFinishedGoods,
	KeyPartNumbers,
}
