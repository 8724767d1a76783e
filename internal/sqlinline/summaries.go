package sqlinline

const QInsertSummary = `--sql 5d24749b-7b67-46c6-bdfa-05046b3ab051
insert into summaries (id, video_id, title, mode, request_json, status, progress_percent)
values ($1, $2, $3, $4, $5, 'queued', 0);
`

const QSelectSummary = `--sql 22f9ca96-7f94-43ed-b2fb-d5ce34267efe
select id, video_id, title, mode, request_json, status, progress_percent, cancel_requested,
       scenes_json, storage_key, file_size_bytes, duration_seconds, error_kind, error_message,
       created_at, updated_at
from summaries
where id = $1;
`

const QSelectSummariesByVideo = `--sql 51d6837c-ef0a-4491-b5de-eac8bd2b68ec
select id, video_id, title, mode, request_json, status, progress_percent, cancel_requested,
       scenes_json, storage_key, file_size_bytes, duration_seconds, error_kind, error_message,
       created_at, updated_at
from summaries
where video_id = $1
order by created_at desc;
`

const QClaimQueuedSummary = `--sql 7a23b483-2a5d-47f8-bbe5-d513b96c1c45
with next_job as (
    select id
    from summaries
    where status = 'queued'
    order by created_at asc
    for update skip locked
    limit 1
)
update summaries
set status = 'processing', updated_at = now()
where id in (select id from next_job)
returning id, video_id, title, mode, request_json, status, progress_percent, cancel_requested,
          scenes_json, storage_key, file_size_bytes, duration_seconds, error_kind, error_message,
          created_at, updated_at;
`

const QSetSummaryProgress = `--sql 6f77b0c4-261b-4969-95d3-4c3730b95d22
update summaries
set progress_percent = greatest(progress_percent, $2), updated_at = now()
where id = $1 and status = 'processing';
`

const QCompleteSummary = `--sql d686dc18-0393-4923-a9ac-b3c43266f01f
update summaries
set status = 'completed',
    progress_percent = 100,
    storage_key = $2,
    file_size_bytes = $3,
    duration_seconds = $4,
    scenes_json = $5,
    updated_at = now()
where id = $1 and status = 'processing';
`

const QFailSummary = `--sql be2ead0e-521c-4d29-8d02-2b120b10c75f
update summaries
set status = 'failed', error_kind = $2, error_message = $3, updated_at = now()
where id = $1 and status not in ('completed', 'failed', 'cancelled');
`

const QCancelQueuedSummary = `--sql e70f2db4-6877-477c-ba87-0a4e8b24080b
update summaries
set status = 'cancelled', cancel_requested = true, updated_at = now()
where id = $1 and status = 'queued'
returning id;
`

const QRequestSummaryCancel = `--sql 49956e73-95ba-4b99-85a3-a70fbc8f65a7
update summaries
set cancel_requested = true, updated_at = now()
where id = $1 and status = 'processing'
returning id;
`

const QSelectCancelRequested = `--sql 35ea4ed5-f426-4279-a1bf-fb67785952e2
select cancel_requested from summaries where id = $1;
`

const QMarkSummaryCancelled = `--sql 68fd3c7a-16b4-40aa-bfb6-01ce361fba89
update summaries
set status = 'cancelled', updated_at = now()
where id = $1 and status not in ('completed', 'failed', 'cancelled');
`

const QDeleteSummary = `--sql fdfbf2a9-6a5e-4865-b2d9-bcceb0e9195a
delete from summaries where id = $1;
`
