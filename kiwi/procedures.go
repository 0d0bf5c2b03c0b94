package kiwi

// Backend procedure names.
const (
	ProcGetAppName               = "get_app_name"
	ProcGetAppVersion            = "get_app_version"
	ProcGetAppConfig             = "get_app_config"
	ProcGetRelativeImageDataPath = "get_relative_image_data_path"
	ProcSaveAppConfig            = "save_app_config"

	ProcGetMonitorSize   = "get_monitor_size"
	ProcRequestFrameData = "request_frame_data"

	ProcPathExists        = "path_exists"
	ProcXattrPython       = "xattr_python"
	ProcProtectWindows    = "protect_windows"
	ProcUnprotectWindows  = "unprotect_windows"
	ProcOpenWebsocket     = "open_websocket"
	ProcShutdownWebsocket = "shutdown_websocket"
	ProcIsWebsocketAlive  = "is_websocket_alive"

	ProcFindImage          = "find_image"
	ProcFindImages         = "find_images"
	ProcFindRelativeColors = "find_relative_colors"
	ProcFindColors         = "find_colors"
	ProcRecognizeText      = "recognize_text"

	ProcGenerateFindImageCode          = "generate_find_image_code"
	ProcGenerateFindImagesCode         = "generate_find_images_code"
	ProcGenerateFindRelativeColorsCode = "generate_find_relative_colors_code"
	ProcGenerateFindColorsCode         = "generate_find_colors_code"
	ProcGenerateRecognizeTextCode      = "generate_recognize_text_code"

	ProcSaveProject         = "save_project"
	ProcInitProject         = "init_project"
	ProcReinitProject       = "reinit_project"
	ProcVerifyProject       = "verify_project"
	ProcOpenProject         = "open_project"
	ProcGetProject          = "get_project"
	ProcOpenProjectInEditor = "open_project_in_editor"
	ProcRevealProjectFolder = "reveal_project_folder"
	ProcSaveImage           = "save_image"
	ProcGetImage            = "get_image"
	ProcGetImageSize        = "get_image_size"
	ProcRun                 = "run"
	ProcRunRecorder         = "run_recorder"
	ProcStopAll             = "stop_all"
)
