package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"taskboard-go/app/controllers"
)

// RegisterRoutes sets up all routes for the application. The update_status
// route is registered before the generic /task/{id} one so it matches first.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	router.HandleFunc("/task", taskController.ListTasks).Methods(http.MethodGet)
	router.HandleFunc("/task", taskController.CreateTask).Methods(http.MethodPost)
	router.HandleFunc("/task/update_status/{id}", taskController.UpdateStatus).Methods(http.MethodPut)
	router.HandleFunc("/task/{id}", taskController.UpdateTask).Methods(http.MethodPut)
	router.HandleFunc("/task/{id}", taskController.DeleteTask).Methods(http.MethodDelete)
}
